package jptext

import "strings"

// Halfwidth katakana block (U+FF61..U+FF9F) in code point order.
var halfwidthKana = []rune("。「」、・ヲァィゥェォャュョッーアイウエオカキクケコサシスセソタチツテトナニヌネノハヒフヘホマミムメモヤユヨラリルレロワン゛゜")

// Fullwidth forms that combine with a voiced sound mark (U+FF9E).
var voiced = map[rune]rune{
	'カ': 'ガ', 'キ': 'ギ', 'ク': 'グ', 'ケ': 'ゲ', 'コ': 'ゴ',
	'サ': 'ザ', 'シ': 'ジ', 'ス': 'ズ', 'セ': 'ゼ', 'ソ': 'ゾ',
	'タ': 'ダ', 'チ': 'ヂ', 'ツ': 'ヅ', 'テ': 'デ', 'ト': 'ド',
	'ハ': 'バ', 'ヒ': 'ビ', 'フ': 'ブ', 'ヘ': 'ベ', 'ホ': 'ボ',
	'ウ': 'ヴ',
}

// Fullwidth forms that combine with a semi-voiced sound mark (U+FF9F).
var semiVoiced = map[rune]rune{
	'ハ': 'パ', 'ヒ': 'ピ', 'フ': 'プ', 'ヘ': 'ペ', 'ホ': 'ポ',
}

// ToFullwidth converts halfwidth ASCII, digits, and katakana to their
// fullwidth forms. Halfwidth katakana followed by a voiced or
// semi-voiced sound mark is composed into the single voiced character.
func ToFullwidth(s string) string {
	runes := []rune(s)
	var sb strings.Builder
	sb.Grow(len(s) * 3)

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == ' ':
			sb.WriteRune('　')
		case r >= '!' && r <= '~':
			sb.WriteRune(r - '!' + '！')
		case r >= '｡' && r <= 'ﾟ':
			full := halfwidthKana[r-'｡']
			if i+1 < len(runes) {
				switch runes[i+1] {
				case 'ﾞ':
					if v, ok := voiced[full]; ok {
						full = v
						i++
					}
				case 'ﾟ':
					if v, ok := semiVoiced[full]; ok {
						full = v
						i++
					}
				}
			}
			sb.WriteRune(full)
		default:
			sb.WriteRune(r)
		}
	}
	return sb.String()
}
