package pattern

// Kind tags the shape of a Pattern node (spec §3's "Pattern" table).
type Kind uint8

const (
	NotAllowed Kind = iota
	Empty
	Text
	Ref
	Attribute
	OneOrMore
	Choice
	Group
	Interleave
	Element
	Define
	And
	Not
	AnyName
	NsName
	LnName
)

var kindNames = [...]string{
	NotAllowed: "NotAllowed",
	Empty:      "Empty",
	Text:       "Text",
	Ref:        "Ref",
	Attribute:  "Attribute",
	OneOrMore:  "OneOrMore",
	Choice:     "Choice",
	Group:      "Group",
	Interleave: "Interleave",
	Element:    "Element",
	Define:     "Define",
	And:        "And",
	Not:        "Not",
	AnyName:    "AnyName",
	NsName:     "NsName",
	LnName:     "LnName",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsLeafToken reports whether a Kind is one of the four "one-character
// child" kinds the derivative engine accepts as its second argument
// (spec §4.2).
func (k Kind) IsLeafToken() bool {
	switch k {
	case Ref, Attribute, LnName, NsName:
		return true
	default:
		return false
	}
}
