package extractor

import "testing"

func TestIsYouTubeURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
		want bool
	}{
		{name: "www watch url", url: "https://www.youtube.com/watch?v=dQw4w9WgXcQ", want: true},
		{name: "bare hostname", url: "https://youtube.com/watch?v=dQw4w9WgXcQ", want: true},
		{name: "mobile hostname", url: "https://m.youtube.com/watch?v=dQw4w9WgXcQ", want: true},
		{name: "short link", url: "https://youtu.be/dQw4w9WgXcQ", want: true},
		{name: "generic article", url: "https://example.com/some-post", want: false},
		{name: "lookalike subdomain", url: "https://youtube.com.evil.example/watch?v=x", want: false},
		{name: "music subdomain not recognized", url: "https://music.youtube.com/watch?v=x", want: false},
		{name: "youtube path on other host", url: "https://blog.example.com/youtube.com", want: false},
		{name: "unparseable url fails closed", url: "http://[::1]:namedport", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsYouTubeURL(tt.url); got != tt.want {
				t.Errorf("IsYouTubeURL(%q) = %v, want %v", tt.url, got, tt.want)
			}
		})
	}
}
