package jptext

import "testing"

func TestNormalize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{
			// Six dot-like characters collapse into six periods,
			// which step 4 then widens like any halfwidth ASCII.
			name:  "strips-whitespace-and-collapses-dots",
			input: " 今日は…  ・・・元気？",
			want:  "今日は．．．．．．元気？",
		},
		{
			name:  "ellipsis-becomes-three-periods",
			input: "えっ…",
			want:  "えっ．．．",
		},
		{
			name:  "lone-middle-dot-kept",
			input: "ア・イ",
			want:  "ア・イ",
		},
		{
			name:  "dot-run-preserves-length",
			input: "あ・・あ",
			want:  "あ．．あ",
		},
		{
			name:  "halfwidth-ascii-widened",
			input: "No.1だ!",
			want:  "Ｎｏ．１だ！",
		},
		{
			name:  "empty",
			input: "",
			want:  "",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := Normalize(tc.input); got != tc.want {
				t.Fatalf("Normalize(%q): got %q, want %q", tc.input, got, tc.want)
			}
		})
	}
}

func TestNormalizeIdempotentOnFullwidthOutput(t *testing.T) {
	t.Parallel()

	// Fullwidth conversion is a no-op on already-fullwidth characters,
	// and whitespace/ellipsis handling is stable once applied.
	inputs := []string{"今日は．．．．．．元気？", "Ｎｏ１だ！", "ガンバレ"}
	for _, in := range inputs {
		if got := Normalize(in); got != in {
			t.Fatalf("Normalize(%q) not idempotent: got %q", in, got)
		}
	}
}

func TestToFullwidthKana(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input string
		want  string
	}{
		{"ｱｲｳｴｵ", "アイウエオ"},
		{"ｶﾞｷﾞ", "ガギ"},
		{"ﾊﾟﾝ", "パン"},
		{"ｳﾞ", "ヴ"},
		{"ﾝﾞ", "ン゛"}, // no voiced form; mark kept standalone
		{"｢ﾃｽﾄ｣", "「テスト」"},
		{"0-9", "０－９"},
	}

	for _, tc := range tests {
		if got := ToFullwidth(tc.input); got != tc.want {
			t.Errorf("ToFullwidth(%q): got %q, want %q", tc.input, got, tc.want)
		}
	}
}

func TestCollapseDotsMixedRun(t *testing.T) {
	t.Parallel()

	// Six dot-like characters collapse into six periods.
	if got := collapseDots("今日は...・・・元気？"); got != "今日は......元気？" {
		t.Fatalf("collapseDots: got %q", got)
	}
}
