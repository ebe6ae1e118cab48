// Package datefmt 把自由文本日期规范化为 "DD/MM/YYYY"。
//
// 支持的输入：
//   - 日-月名-年：15-Mar-23、3 enero 2021、1/dic/22（西班牙语/英语月份长写与短写）
//   - 日/月/年：15/03/2023、1/2/23
//
// 两位年份一律视为 20xx。无法识别或为空值标记时返回 ("", false)。
package datefmt

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/cases"
)

// Layout 是规范化输出的格式（time 包布局）。
const Layout = "02/01/2006"

var (
	monthNamePattern = regexp.MustCompile(`^(\d{1,2})[- /]([A-Za-zñÑ]+)[- /](\d{2,4})$`)
	numericPattern   = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{2,4})$`)

	// 分数斜杠与短破折号在手工录入的数据里很常见
	replacer = strings.NewReplacer("⁄", "/", "–", "-")

	folder = cases.Fold()
)

// monthMap 西班牙语与英语月份（长写与短写）→ 两位月份。
var monthMap = map[string]string{
	// 西班牙语长写
	"enero": "01", "febrero": "02", "marzo": "03", "abril": "04",
	"mayo": "05", "junio": "06", "julio": "07", "agosto": "08",
	"septiembre": "09", "setiembre": "09", "octubre": "10",
	"noviembre": "11", "diciembre": "12",
	// 西班牙语短写
	"ene": "01", "abr": "04", "ago": "08", "dic": "12",
	// 英语长写
	"january": "01", "february": "02", "march": "03", "april": "04",
	"june": "06", "july": "07", "august": "08", "september": "09",
	"october": "10", "november": "11", "december": "12",
	// 两种语言共用或英语短写
	"jan": "01", "feb": "02", "mar": "03", "apr": "04", "may": "05",
	"jun": "06", "jul": "07", "aug": "08", "sep": "09", "oct": "10",
	"nov": "11", "dec": "12",
}

// Month 返回月份名称对应的两位月份（大小写不敏感）。
func Month(name string) (string, bool) {
	mm, ok := monthMap[folder.String(name)]
	return mm, ok
}

func isNullLike(s string) bool {
	switch folder.String(s) {
	case "", "nan", "nat", "none", "null":
		return true
	}
	return false
}

func expandYear(y string) string {
	if len(y) == 2 {
		return "20" + y
	}
	return y
}

// Normalize 把自由文本日期规范化为 "DD/MM/YYYY"。
// 已是规范格式（四位年份）的输入原样返回。
func Normalize(s string) (string, bool) {
	s = strings.TrimSpace(replacer.Replace(s))
	if isNullLike(s) {
		return "", false
	}

	if m := monthNamePattern.FindStringSubmatch(s); m != nil {
		if mm, ok := Month(m[2]); ok {
			d, _ := strconv.Atoi(m[1])
			return fmt.Sprintf("%02d/%s/%s", d, mm, expandYear(m[3])), true
		}
	}

	if m := numericPattern.FindStringSubmatch(s); m != nil {
		d, _ := strconv.Atoi(m[1])
		mo, _ := strconv.Atoi(m[2])
		return fmt.Sprintf("%02d/%02d/%s", d, mo, expandYear(m[3])), true
	}

	return "", false
}

// Parse 规范化后按 Layout 解析为日期。
// 规范化失败或日期不存在（如 31/02/2023、三位年份）时返回 false，不报错。
func Parse(s string) (time.Time, bool) {
	norm, ok := Normalize(s)
	if !ok {
		return time.Time{}, false
	}
	t, err := time.Parse(Layout, norm)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
