package runs

// Pointer 是文本段序列上的双向游标，位置为（段下标，段内偏移）。
// offset == Len() 表示段末，长度为 0 的段也在此位置被访问。
type Pointer struct {
	runs []Run
	run  int
	off  int
}

// NewPointer 返回位于 rs 起点的游标。
func NewPointer(rs []Run) *Pointer {
	return &Pointer{runs: rs}
}

// Index 返回当前段下标。
func (p *Pointer) Index() int { return p.run }

// Offset 返回当前段内偏移。
func (p *Pointer) Offset() int { return p.off }

// Current 返回游标所在的段，序列为空时返回 nil。
func (p *Pointer) Current() Run {
	if p.run >= len(p.runs) {
		return nil
	}
	return p.runs[p.run]
}

// Previous 返回前一个段，没有则返回 nil。
func (p *Pointer) Previous() Run {
	if p.run == 0 || p.run > len(p.runs) {
		return nil
	}
	return p.runs[p.run-1]
}

// CanRead 报告游标处是否有可读字符。
func (p *Pointer) CanRead() bool {
	cur := p.Current()
	return cur != nil && p.off < cur.Len()
}

// Rune 返回游标处的字符，仅在 CanRead 为 true 时调用。
func (p *Pointer) Rune() rune {
	return p.runs[p.run].At(p.off)
}

// EOS 报告游标是否位于最后一个段的末尾。
func (p *Pointer) EOS() bool {
	if len(p.runs) == 0 {
		return true
	}
	return p.run == len(p.runs)-1 && p.off >= p.runs[p.run].Len()
}

// Next 前进一个位置，位于段末时进入下一个段。
func (p *Pointer) Next() error {
	if p.EOS() {
		return ErrEndOfSource
	}
	if p.off < p.runs[p.run].Len() {
		p.off++
		return nil
	}
	p.run++
	p.off = 0
	return nil
}

// Prev 后退一个位置，位于段首时落到前一个段的末尾。
func (p *Pointer) Prev() error {
	if p.off > 0 {
		p.off--
		return nil
	}
	if p.run == 0 {
		return ErrStartOfSource
	}
	p.run--
	p.off = p.runs[p.run].Len()
	return nil
}

// NextRun 跳到下一个段的起点。
func (p *Pointer) NextRun() error {
	if p.run >= len(p.runs)-1 {
		if len(p.runs) > 0 {
			p.off = p.runs[p.run].Len()
		}
		return ErrEndOfSource
	}
	p.run++
	p.off = 0
	return nil
}

// Lookback 返回当前段之前第 n 个 Characters 的文本（n = 1 为最近的一个）。
func (p *Pointer) Lookback(n int) (string, bool) {
	for i := p.run - 1; i >= 0 && i < len(p.runs); i-- {
		if c, ok := p.runs[i].(Characters); ok {
			if n--; n == 0 {
				return c.Text(), true
			}
		}
	}
	return "", false
}

// Lookahead 返回当前段之后第 n 个 Characters 的文本。
func (p *Pointer) Lookahead(n int) (string, bool) {
	for i := p.run + 1; i < len(p.runs); i++ {
		if c, ok := p.runs[i].(Characters); ok {
			if n--; n == 0 {
				return c.Text(), true
			}
		}
	}
	return "", false
}
