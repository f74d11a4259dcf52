package media

import (
	"net/url"
	"regexp"
	"strings"
)

var driveFilePath = regexp.MustCompile(`/file/d/([^/?#]+)/(?:view|preview)`)

const viewerBase = "https://docs.google.com/viewer"

// EmbedURL turns a document link into something an iframe can show. Drive
// share links become their /preview form; any other http(s) link is wrapped
// in the generic viewer. Anything unrecognized comes back unchanged.
func EmbedURL(ref string) string {
	raw := strings.TrimSpace(ref)
	u, err := url.Parse(raw)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return ref
	}
	if strings.HasSuffix(u.Host, "drive.google.com") {
		if m := driveFilePath.FindStringSubmatch(u.Path); m != nil {
			return drivePreview(m[1])
		}
		if id := u.Query().Get("id"); id != "" {
			return drivePreview(id)
		}
	}
	if strings.HasPrefix(raw, viewerBase) {
		return raw
	}
	return viewerBase + "?url=" + url.QueryEscape(raw) + "&embedded=true"
}

func drivePreview(id string) string {
	return "https://drive.google.com/file/d/" + url.PathEscape(id) + "/preview"
}
