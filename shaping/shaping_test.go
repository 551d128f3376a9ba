package shaping

import (
	"errors"
	"testing"

	"github.com/go-text/typesetting/language"
)

func sumLengths(units []ThaiUnit) int {
	n := 0
	for _, u := range units {
		n += u.Length
	}
	return n
}

func checkCaps(t *testing.T, text []rune, carets []CaretUnit) {
	t.Helper()
	for _, c := range carets {
		var right, top, bottom, tone int
		for _, r := range text[c.Start:c.End()] {
			switch Classify(r) {
			case RightVowel:
				right++
			case TopVowel:
				top++
			case BottomVowel:
				bottom++
			case ToneMark:
				tone++
			}
		}
		if right > 2 || top > 1 || bottom > 1 || tone > 1 {
			t.Fatalf("cluster %q exceeds caps", string(text[c.Start:c.End()]))
		}
	}
}

func TestThaiClustersCoverInput(t *testing.T) {
	inputs := []string{
		"สวัสดีครับ",
		"ภาษาไทย",
		"เกาะแก้วกลางทะเล",
		"อยู่ที่ไหน",
		"กิิุุ่่่", // stacked marks must split, never overflow
		"ำำะะะ",
		"abc ไทย 123",
		"",
	}
	for _, s := range inputs {
		text := []rune(s)
		units, carets, err := ClusterThai(text, 0)
		if err != nil {
			t.Fatalf("cluster %q failed: %v", s, err)
		}
		if sumLengths(units) != len(text) {
			t.Fatalf("%q: sum of unit lengths %d != %d", s, sumLengths(units), len(text))
		}
		if len(units) != len(carets) {
			t.Fatalf("%q: %d units but %d carets", s, len(units), len(carets))
		}
		checkCaps(t, text, carets)
	}
}

func TestThaiClusterBoundaries(t *testing.T) {
	cases := []struct {
		in   string
		want []string
	}{
		{"เกาะ", []string{"เกาะ"}},
		{"แก้ว", []string{"แก้ว"}},
		{"ตัว", []string{"ตัว"}},
		{"อยู่", []string{"อยู่"}},
		{"กก", []string{"ก", "ก"}},
		{"กิิ", []string{"กิ", "ิ"}},
		{"วัน", []string{"วั", "น"}},
	}
	for _, c := range cases {
		text := []rune(c.in)
		_, carets, err := ClusterThai(text, 0)
		if err != nil {
			t.Fatalf("%q: %v", c.in, err)
		}
		var got []string
		for _, cu := range carets {
			got = append(got, string(text[cu.Start:cu.End()]))
		}
		if len(got) != len(c.want) {
			t.Fatalf("%q clusters = %q, want %q", c.in, got, c.want)
		}
		for i := range got {
			if got[i] != c.want[i] {
				t.Fatalf("%q clusters = %q, want %q", c.in, got, c.want)
			}
		}
	}
}

func TestThaiFlags(t *testing.T) {
	units, _, err := ClusterThai([]rune("กก้ำกุ้"), 0)
	if err != nil {
		t.Fatal(err)
	}
	// ก | ก้ำ | กุ้
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %+v", units)
	}
	if !units[0].Flags.Has(SingleConsonantOnly) {
		t.Fatalf("first unit should be a single consonant: %+v", units[0])
	}
	if !units[1].Flags.Has(HasSaraAm) {
		t.Fatalf("second unit should carry sara am: %+v", units[1])
	}
	if !units[2].Flags.Has(HasBottomVowel) {
		t.Fatalf("third unit should carry a bottom vowel: %+v", units[2])
	}

	units, _, _ = ClusterThai([]rune("กี่"), 0)
	if len(units) != 1 || !units[0].Flags.Has(DoubleTopVowel) {
		t.Fatalf("expected a double top cluster, got %+v", units)
	}
	units, _, _ = ClusterThai([]rune("กรา"), 0)
	if len(units) != 1 || !units[0].Flags.Has(IsDoubleConsonant) {
		t.Fatalf("expected a double consonant cluster, got %+v", units)
	}
}

func TestArabicJoining(t *testing.T) {
	text := []rune("مرحبا")
	clusters, err := ShapeArabic(text, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	want := []rune{'\uFEE3', '\uFEAE', '\uFEA3', '\uFE92', '\uFE8E'}
	if len(clusters) != len(want) {
		t.Fatalf("expected %d clusters, got %d", len(want), len(clusters))
	}
	for i, c := range clusters {
		if c.Runes[0] != want[i] {
			t.Fatalf("cluster %d = %U, want %U", i, c.Runes[0], want[i])
		}
	}
}

func TestArabicContextFromNeighbours(t *testing.T) {
	// 两侧都被相邻文本段连接的单个 beh 取中间形
	clusters, err := ShapeArabic([]rune("ب"), '\u0628', '\u0628', 0)
	if err != nil {
		t.Fatal(err)
	}
	if clusters[0].Runes[0] != '\uFE92' {
		t.Fatalf("expected medial beh, got %U", clusters[0].Runes[0])
	}
}

func TestLamAlefLigature(t *testing.T) {
	text := []rune("سلام")
	clusters, err := ShapeArabic(text, 0, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 3 {
		t.Fatalf("expected 3 clusters, got %d", len(clusters))
	}
	if clusters[1].Runes[0] != '\uFEFC' || clusters[1].Caret != (CaretUnit{Start: 11, Len: 2}) {
		t.Fatalf("expected final lam-alef over [11,13), got %U %+v", clusters[1].Runes[0], clusters[1].Caret)
	}
}

func TestArabicMarksRideOnBase(t *testing.T) {
	text := []rune("بَب")
	clusters, err := ShapeArabic(text, 0, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(clusters) != 2 || len(clusters[0].Runes) != 2 || clusters[0].Caret.Len != 2 {
		t.Fatalf("fatha should join the first cluster: %+v", clusters)
	}
}

func TestShapeSegments(t *testing.T) {
	text := []rune("hi (سلام) ไทย 12")
	segs, err := Shape(text, Context{})
	if err != nil {
		t.Fatal(err)
	}
	var scripts []language.Script
	for _, s := range segs {
		scripts = append(scripts, s.Script)
	}
	if len(segs) != 5 {
		t.Fatalf("expected 5 segments, got %d: %v", len(segs), scripts)
	}
	if segs[1].Script != language.Arabic || !segs[1].RTL {
		t.Fatalf("second segment should be RTL arabic: %+v", segs[1])
	}
	if segs[3].Script != language.Thai {
		t.Fatalf("fourth segment should be thai: %+v", segs[3])
	}
	if err := CheckCarets(Carets(segs), 0, len(text)); err != nil {
		t.Fatalf("carets do not partition the text: %v", err)
	}
}

func TestMirrorBrackets(t *testing.T) {
	if Mirror('(') != ')' || Mirror(']') != '[' || Mirror('a') != 'a' {
		t.Fatalf("unexpected mirror results")
	}
}

func TestCheckCaretsDetectsGaps(t *testing.T) {
	err := CheckCarets([]CaretUnit{{0, 1}, {2, 1}}, 0, 3)
	if !errors.Is(err, ErrCaretMismatch) {
		t.Fatalf("expected ErrCaretMismatch, got %v", err)
	}
	if err := CheckCarets([]CaretUnit{{0, 2}, {2, 1}}, 0, 2); !errors.Is(err, ErrCaretMismatch) {
		t.Fatalf("expected overflow mismatch, got %v", err)
	}
	if i, ok := CaretAt([]CaretUnit{{0, 2}, {2, 3}}, 3); !ok || i != 1 {
		t.Fatalf("CaretAt = %d %v", i, ok)
	}
}
