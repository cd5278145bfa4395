package render

import (
	"fmt"
	"html/template"
	"net/url"
	"regexp"
	"strconv"
	"strings"
)

const (
	videoAspectLandscape = "16:9"
	videoAspectPortrait  = "9:16"
)

var videoTimePattern = regexp.MustCompile(`(?i)(\d+)(h|m|s)`) // YouTube t=1h2m3s

// VideoEmbed 描述可以用 iframe 嵌入的视频平台链接。
type VideoEmbed struct {
	Platform string
	Source   string
	EmbedURL template.URL
	Aspect   string
	Title    string
	Sandbox  string
}

// videoEmbedFor 识别 YouTube、B 站与抖音链接；其他地址返回 nil，按视频文件直接播放。
func videoEmbedFor(raw string) *VideoEmbed {
	trimmed := normalizeVideoURL(strings.TrimSpace(raw))
	if trimmed == "" {
		return nil
	}
	parsed, err := url.Parse(trimmed)
	if err != nil || parsed == nil {
		return nil
	}
	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return nil
	}
	if parsed.Hostname() == "" {
		return nil
	}

	for _, parse := range []func(*url.URL, string) (VideoEmbed, bool){
		parseYouTubeEmbed,
		parseBilibiliEmbed,
		parseDouyinEmbed,
	} {
		if embed, ok := parse(parsed, trimmed); ok {
			embed.Title = videoEmbedTitle(embed.Platform)
			if embed.Platform == "bilibili" {
				embed.Sandbox = "allow-scripts allow-same-origin allow-presentation"
			}
			return &embed
		}
	}
	return nil
}

func normalizeVideoURL(raw string) string {
	if raw == "" {
		return raw
	}
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	for _, prefix := range []string{
		"douyin.com/", "www.douyin.com/", "iesdouyin.com/", "www.iesdouyin.com/", "v.douyin.com/",
		"bilibili.com/", "www.bilibili.com/",
		"youtube.com/", "www.youtube.com/", "youtu.be/",
	} {
		if strings.HasPrefix(lower, prefix) {
			return "https://" + raw
		}
	}
	return raw
}

func parseYouTubeEmbed(u *url.URL, source string) (VideoEmbed, bool) {
	host := strings.ToLower(u.Hostname())
	var videoID string

	switch {
	case host == "youtu.be":
		videoID = strings.Trim(strings.TrimPrefix(u.Path, "/"), "/")
	case isHostOrSubdomain(host, "youtube.com"):
		path := strings.Trim(u.Path, "/")
		if path == "watch" {
			videoID = u.Query().Get("v")
		}
		for _, prefix := range []string{"shorts/", "embed/", "live/"} {
			if strings.HasPrefix(path, prefix) {
				videoID = strings.TrimPrefix(path, prefix)
			}
		}
	default:
		return VideoEmbed{}, false
	}
	if idx := strings.Index(videoID, "/"); idx >= 0 {
		videoID = videoID[:idx]
	}
	if videoID == "" {
		return VideoEmbed{}, false
	}

	// 背景视频：静音、循环、自动播放
	values := url.Values{}
	values.Set("autoplay", "1")
	values.Set("mute", "1")
	values.Set("loop", "1")
	values.Set("playlist", videoID)
	values.Set("controls", "0")
	values.Set("rel", "0")
	values.Set("playsinline", "1")
	if start := parseYouTubeStart(u); start > 0 {
		values.Set("start", strconv.Itoa(start))
	}

	return VideoEmbed{
		Platform: "youtube",
		Source:   source,
		EmbedURL: template.URL(fmt.Sprintf("https://www.youtube.com/embed/%s?%s", url.PathEscape(videoID), values.Encode())),
		Aspect:   videoAspectLandscape,
	}, true
}

func parseYouTubeStart(u *url.URL) int {
	query := u.Query()
	for _, key := range []string{"start", "t"} {
		if value := query.Get(key); value != "" {
			return parseYouTubeTime(value)
		}
	}
	return 0
}

func parseYouTubeTime(value string) int {
	trimmed := strings.TrimSpace(value)
	if seconds, err := strconv.Atoi(trimmed); err == nil {
		if seconds > 0 {
			return seconds
		}
		return 0
	}

	total := 0
	for _, match := range videoTimePattern.FindAllStringSubmatch(trimmed, -1) {
		n, err := strconv.Atoi(match[1])
		if err != nil || n <= 0 {
			continue
		}
		switch strings.ToLower(match[2]) {
		case "h":
			total += n * 3600
		case "m":
			total += n * 60
		case "s":
			total += n
		}
	}
	return total
}

func parseBilibiliEmbed(u *url.URL, source string) (VideoEmbed, bool) {
	if !isHostOrSubdomain(u.Hostname(), "bilibili.com") {
		return VideoEmbed{}, false
	}
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	if len(segments) < 2 || segments[0] != "video" || segments[1] == "" {
		return VideoEmbed{}, false
	}

	rawID := segments[1]
	values := url.Values{}
	lowerID := strings.ToLower(rawID)
	switch {
	case strings.HasPrefix(lowerID, "bv"):
		values.Set("bvid", rawID)
	case strings.HasPrefix(lowerID, "av"):
		values.Set("aid", strings.TrimPrefix(lowerID, "av"))
	default:
		if _, err := strconv.ParseUint(rawID, 10, 64); err != nil {
			return VideoEmbed{}, false
		}
		values.Set("aid", rawID)
	}
	page := 1
	if p, err := strconv.Atoi(u.Query().Get("p")); err == nil && p > 0 {
		page = p
	}
	values.Set("page", strconv.Itoa(page))
	values.Set("high_quality", "1")
	values.Set("danmaku", "0")
	values.Set("autoplay", "1")
	values.Set("muted", "1")

	return VideoEmbed{
		Platform: "bilibili",
		Source:   source,
		EmbedURL: template.URL("https://player.bilibili.com/player.html?" + values.Encode()),
		Aspect:   videoAspectLandscape,
	}, true
}

func parseDouyinEmbed(u *url.URL, source string) (VideoEmbed, bool) {
	host := strings.ToLower(u.Hostname())
	if !isHostOrSubdomain(host, "douyin.com") && !isHostOrSubdomain(host, "iesdouyin.com") {
		return VideoEmbed{}, false
	}

	videoID := u.Query().Get("modal_id")
	segments := strings.Split(strings.Trim(u.Path, "/"), "/")
	for idx, segment := range segments {
		if segment == "video" && idx+1 < len(segments) {
			videoID = segments[idx+1]
			break
		}
		if strings.HasPrefix(segment, "modal_id=") {
			videoID = strings.TrimPrefix(segment, "modal_id=")
			break
		}
	}

	var embedURL string
	switch {
	case videoID != "":
		embedURL = "https://www.iesdouyin.com/share/video/" + url.PathEscape(videoID)
	case host == "v.douyin.com":
		embedURL = source
	default:
		return VideoEmbed{}, false
	}

	return VideoEmbed{
		Platform: "douyin",
		Source:   source,
		EmbedURL: template.URL(embedURL),
		Aspect:   videoAspectPortrait,
	}, true
}

func videoEmbedTitle(platform string) string {
	switch platform {
	case "youtube":
		return "YouTube 视频播放器"
	case "bilibili":
		return "B 站视频播放器"
	case "douyin":
		return "抖音视频播放器"
	default:
		return "视频播放器"
	}
}

func isHostOrSubdomain(host, domain string) bool {
	host = strings.ToLower(strings.TrimSpace(host))
	domain = strings.ToLower(strings.TrimSpace(domain))
	if host == "" || domain == "" {
		return false
	}
	return host == domain || strings.HasSuffix(host, "."+domain)
}
