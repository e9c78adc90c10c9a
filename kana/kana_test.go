package kana

import "testing"

func TestToHiragana(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"イリミナイカワ", "いりみないかわ"},
		{"カード", "かーど"},
		{"ひらがな", "ひらがな"},
		{"ABC", "ABC"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := ToHiragana(tt.in); got != tt.want {
			t.Errorf("ToHiragana(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHasKanji(t *testing.T) {
	if !HasKanji("入見内川") {
		t.Error("expected kanji in 入見内川")
	}
	if HasKanji("です。") {
		t.Error("did not expect kanji in です。")
	}
}
