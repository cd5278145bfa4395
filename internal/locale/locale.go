package locale

import "strings"

const (
	LanguageChinese = "zh"
	LanguageEnglish = "en"
)

// Preference 描述一次请求最终使用的语言。
type Preference struct {
	Language string
	Locale   string
	HTMLLang string
}

// Languages returns the supported site languages.
func Languages() []string {
	return []string{LanguageChinese, LanguageEnglish}
}

func NormalizeLanguage(raw string) string {
	trimmed := strings.ToLower(strings.TrimSpace(raw))
	if trimmed == "" {
		return ""
	}
	if strings.HasPrefix(trimmed, "zh") || trimmed == "cn" {
		return LanguageChinese
	}
	if strings.HasPrefix(trimmed, "en") {
		return LanguageEnglish
	}
	return ""
}

// Resolve 返回第一个可识别的候选语言，全部无法识别时返回中文。
func Resolve(candidates ...string) string {
	for _, candidate := range candidates {
		if normalized := NormalizeLanguage(candidate); normalized != "" {
			return normalized
		}
	}
	return LanguageChinese
}

func LanguageFromCountryCode(code string) string {
	trimmed := strings.ToUpper(strings.TrimSpace(code))
	if trimmed == "" {
		return ""
	}
	switch trimmed {
	case "CN", "TW", "HK", "MO", "SG":
		return LanguageChinese
	}
	return LanguageEnglish
}

// LanguageFromAcceptLanguage 按出现顺序取第一个受支持的语言。
func LanguageFromAcceptLanguage(header string) string {
	for _, part := range strings.Split(header, ",") {
		tag := part
		if idx := strings.Index(tag, ";"); idx >= 0 {
			tag = tag[:idx]
		}
		if normalized := NormalizeLanguage(tag); normalized != "" {
			return normalized
		}
	}
	return ""
}

func PreferenceForLanguage(language string) Preference {
	if NormalizeLanguage(language) == LanguageEnglish {
		return Preference{Language: LanguageEnglish, Locale: "en_US", HTMLLang: "en-US"}
	}
	return Preference{Language: LanguageChinese, Locale: "zh_CN", HTMLLang: "zh-CN"}
}
