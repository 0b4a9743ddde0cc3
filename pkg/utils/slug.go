package utils

import (
	"fmt"
	"strings"
	"time"
	"unicode"
)

// MakeSlug 根据标题生成 URL slug
// 规则：去掉非字母数字字符，空格转连字符，全部小写
func MakeSlug(title string) string {
	var b strings.Builder
	for _, r := range title {
		if unicode.IsLetter(r) || unicode.IsDigit(r) || r == ' ' {
			b.WriteRune(unicode.ToLower(r))
		}
	}
	slug := strings.Join(strings.Fields(b.String()), "-")
	return slug
}

// MakeUniqueSlug 生成唯一 slug，追加 Unix 时间戳后缀避免标题冲突
func MakeUniqueSlug(title string, now time.Time) string {
	slug := MakeSlug(title)
	if slug == "" {
		slug = "post"
	}
	return fmt.Sprintf("%s-%d", slug, now.Unix())
}
