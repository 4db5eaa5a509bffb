package domain

// Platform is the closed enumeration of source platforms an article is
// classified into. Classification happens once at creation and is
// immutable afterward.
type Platform string

const (
	PlatformYouTube   Platform = "youtube"
	PlatformTikTok    Platform = "tiktok"
	PlatformInstagram Platform = "instagram"
	PlatformTwitter   Platform = "twitter"
	PlatformFacebook  Platform = "facebook"
	PlatformReddit    Platform = "reddit"
	PlatformOther     Platform = "other"
)

var platformColors = map[Platform]string{
	PlatformYouTube:   "#FF0000",
	PlatformTikTok:    "#010101",
	PlatformInstagram: "#E4405F",
	PlatformTwitter:   "#1DA1F2",
	PlatformFacebook:  "#1877F2",
	PlatformReddit:    "#FF4500",
	PlatformOther:     "#607D8B",
}

var platformNames = map[Platform]string{
	PlatformYouTube:   "YouTube",
	PlatformTikTok:    "TikTok",
	PlatformInstagram: "Instagram",
	PlatformTwitter:   "X",
	PlatformFacebook:  "Facebook",
	PlatformReddit:    "Reddit",
	PlatformOther:     "Web",
}

// Color returns the display accent tied 1:1 to the platform.
func (p Platform) Color() string {
	if c, ok := platformColors[p]; ok {
		return c
	}
	return platformColors[PlatformOther]
}

// DisplayName returns the human-readable platform name.
func (p Platform) DisplayName() string {
	if n, ok := platformNames[p]; ok {
		return n
	}
	return platformNames[PlatformOther]
}
