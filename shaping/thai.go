package shaping

// ThaiFlags 描述泰文簇的组成。
type ThaiFlags uint8

const (
	SingleConsonantOnly ThaiFlags = 1 << iota
	DoubleTopVowel
	HasBottomVowel
	HasSaraAm
	IsDoubleConsonant
)

// Has 报告 f 的所有位是否均已设置。
func (t ThaiFlags) Has(f ThaiFlags) bool { return t&f == f }

// ThaiUnit 是最小的可渲染泰文簇，Length 为源码位数。
type ThaiUnit struct {
	Flags  ThaiFlags
	Length int
}

// 每簇上限
const (
	maxRightVowels  = 2
	maxTopVowels    = 1
	maxBottomVowels = 1
	maxToneMarks    = 1
)

// thaiCluster 累积一个簇。
type thaiCluster struct {
	length     int
	last       CharacterType
	leftStart  bool
	consonants int
	right      int
	top        int
	bottom     int
	tone       int
	flags      ThaiFlags
}

func (c *thaiCluster) reset() { *c = thaiCluster{} }

func isThaiMark(t CharacterType) bool {
	return t == TopVowel || t == BottomVowel || t == ToneMark
}

// resolve 决定字符在当前簇中的角色。模糊辅音在上标符号之后，或在以左元音开头的簇的辅音之后，
// 作为元音处理，除非下一个字符是需要以它为基字的符号。
func (c *thaiCluster) resolve(text []rune, i int) CharacterType {
	t := Classify(text[i])
	if t != VagueConsonant {
		return t
	}
	if c.length == 0 {
		return Consonant
	}
	if i+1 < len(text) && isThaiMark(Classify(text[i+1])) {
		return Consonant
	}
	switch {
	case c.last == TopVowel || c.last == ToneMark:
		return RightVowel
	case c.last == Consonant && c.leftStart && c.consonants > 0:
		return RightVowel
	}
	return Consonant
}

// accept 报告类别为 t 的 r 能否延伸当前簇，可以则更新簇。
func (c *thaiCluster) accept(prev, r rune, t CharacterType) bool {
	if c.length == 0 {
		c.length = 1
		c.last = t
		c.leftStart = t == LeftVowel
		if t == Consonant {
			c.consonants = 1
		}
		c.count(t)
		return true
	}
	ok := allowed[c.last][t]
	if !ok && c.last == Consonant && t == Consonant && c.consonants == 1 && doubleConsonants[[2]rune{prev, r}] {
		ok = true
		c.flags |= IsDoubleConsonant
	}
	if !ok {
		return false
	}
	switch {
	case t == RightVowel && c.right >= maxRightVowels,
		t == TopVowel && c.top >= maxTopVowels,
		t == BottomVowel && c.bottom >= maxBottomVowels,
		t == ToneMark && c.tone >= maxToneMarks:
		return false
	}
	if t == Consonant {
		c.consonants++
	}
	c.length++
	c.last = t
	c.count(t)
	return true
}

func (c *thaiCluster) count(t CharacterType) {
	switch t {
	case RightVowel:
		c.right++
	case TopVowel:
		c.top++
	case BottomVowel:
		c.bottom++
		c.flags |= HasBottomVowel
	case ToneMark:
		c.tone++
	case SaraAm:
		c.flags |= HasSaraAm
	}
}

func (c *thaiCluster) unit() ThaiUnit {
	flags := c.flags
	if c.length == 1 && c.last == Consonant {
		flags |= SingleConsonantOnly
	}
	if c.top > 0 && c.tone > 0 {
		flags |= DoubleTopVowel
	}
	return ThaiUnit{Flags: flags, Length: c.length}
}

// ClusterThai 将文本切分为泰文簇及对应的光标单元，范围从 base 开始。
// 不能延伸当前簇的字符会结束该簇并开始下一个。
func ClusterThai(text []rune, base int) ([]ThaiUnit, []CaretUnit, error) {
	var (
		units  []ThaiUnit
		carets []CaretUnit
		cur    thaiCluster
		start  int
	)
	closeCluster := func() {
		units = append(units, cur.unit())
		carets = append(carets, CaretUnit{Start: base + start, Len: cur.length})
		start += cur.length
		cur.reset()
	}
	for i := 0; i < len(text); {
		t := cur.resolve(text, i)
		var prev rune
		if i > 0 {
			prev = text[i-1]
		}
		if cur.accept(prev, text[i], t) {
			i++
			continue
		}
		// 不前进：当前字符重新开始下一个簇
		closeCluster()
	}
	if cur.length > 0 {
		closeCluster()
	}
	if err := CheckCarets(carets, base, len(text)); err != nil {
		return nil, nil, err
	}
	return units, carets, nil
}
