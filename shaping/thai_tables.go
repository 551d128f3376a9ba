package shaping

// CharacterType 是码位的泰文成形类别。
type CharacterType uint8

const (
	Other CharacterType = iota
	Consonant
	VagueConsonant
	LeftVowel
	RightVowel
	SaraAm
	TopVowel
	BottomVowel
	ToneMark
)

var characterTypeNames = [...]string{
	"Other", "Consonant", "VagueConsonant", "LeftVowel", "RightVowel",
	"SaraAm", "TopVowel", "BottomVowel", "ToneMark",
}

func (c CharacterType) String() string {
	if int(c) < len(characterTypeNames) {
		return characterTypeNames[c]
	}
	return "Other"
}

// Classify 返回 r 的类别，表外字符均为 Other。
func Classify(r rune) CharacterType {
	switch {
	case r == '\u0E22' || r == '\u0E27' || r == '\u0E2D': // ย ว อ
		return VagueConsonant
	case r >= '\u0E01' && r <= '\u0E2E':
		return Consonant
	case r >= '\u0E40' && r <= '\u0E44':
		return LeftVowel
	case r == '\u0E30' || r == '\u0E32' || r == '\u0E45':
		return RightVowel
	case r == '\u0E33':
		return SaraAm
	case r == '\u0E31' || (r >= '\u0E34' && r <= '\u0E37') || r == '\u0E47' || r == '\u0E4D' || r == '\u0E4E':
		return TopVowel
	case r >= '\u0E38' && r <= '\u0E3A':
		return BottomVowel
	case r >= '\u0E48' && r <= '\u0E4C':
		return ToneMark
	}
	return Other
}

// allowed[prev][next] 表示末字符类别为 prev 的簇能否接上类别为 next 的字符。
// 模糊辅音进入此表前已解析为 Consonant 或 RightVowel。
var allowed = [...][9]bool{
	Other:       {},
	Consonant:   {RightVowel: true, SaraAm: true, TopVowel: true, BottomVowel: true, ToneMark: true},
	LeftVowel:   {Consonant: true},
	RightVowel:  {RightVowel: true},
	SaraAm:      {},
	TopVowel:    {ToneMark: true, RightVowel: true},
	BottomVowel: {ToneMark: true},
	ToneMark:    {RightVowel: true, SaraAm: true},
}

// doubleConsonants 是由两个辅音共用一个元音的开头组合。
var doubleConsonants = map[[2]rune]bool{
	{'ก', 'ร'}: true, {'ก', 'ล'}: true, {'ก', 'ว'}: true,
	{'ข', 'ร'}: true, {'ข', 'ล'}: true, {'ข', 'ว'}: true,
	{'ค', 'ร'}: true, {'ค', 'ล'}: true, {'ค', 'ว'}: true,
	{'ต', 'ร'}: true, {'ป', 'ร'}: true, {'ป', 'ล'}: true,
	{'พ', 'ร'}: true, {'พ', 'ล'}: true, {'ผ', 'ล'}: true,
	{'บ', 'ร'}: true, {'บ', 'ล'}: true, {'ด', 'ร'}: true,
	{'ท', 'ร'}: true, {'ศ', 'ร'}: true, {'ส', 'ร'}: true,
	{'อ', 'ย'}: true,
	{'ห', 'ง'}: true, {'ห', 'ญ'}: true, {'ห', 'น'}: true, {'ห', 'ม'}: true,
	{'ห', 'ย'}: true, {'ห', 'ร'}: true, {'ห', 'ล'}: true, {'ห', 'ว'}: true,
}
