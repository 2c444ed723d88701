package texture

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"net/url"
	"strings"

	"github.com/anthonynsimon/bild/imgio"
	_ "golang.org/x/image/webp"
)

// ErrUnsupportedSource is returned for data URLs that are not base64 images and for
// schemes the loader does not fetch.
var ErrUnsupportedSource = errors.New("texture: unsupported image source")

// Fetcher downloads a remote image and returns the local file path.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// Loader resolves a tile image URL to a decoded image.
type Loader struct {
	Remote Fetcher
}

// NewLoader returns a loader downloading remote images through remote.
func NewLoader(remote Fetcher) *Loader {
	return &Loader{Remote: remote}
}

// Load decodes the image at src: http(s) URLs through the Fetcher, data URLs inline,
// anything else as a local file path.
func (l *Loader) Load(ctx context.Context, src string) (image.Image, error) {
	src = strings.TrimSpace(src)
	if src == "" {
		return nil, fmt.Errorf("%w: empty", ErrUnsupportedSource)
	}
	lower := strings.ToLower(src)
	switch {
	case strings.HasPrefix(lower, "data:"):
		return decodeDataURL(src)
	case strings.HasPrefix(lower, "http://"), strings.HasPrefix(lower, "https://"):
		if l.Remote == nil {
			return nil, fmt.Errorf("%w: remote loading disabled", ErrUnsupportedSource)
		}
		path, err := l.Remote.Fetch(ctx, src)
		if err != nil {
			return nil, err
		}
		return openFile(path)
	case strings.HasPrefix(lower, "file://"):
		u, err := url.Parse(src)
		if err != nil {
			return nil, fmt.Errorf("texture: %w", err)
		}
		return openFile(u.Path)
	}
	if u, err := url.Parse(src); err == nil && len(u.Scheme) > 1 {
		return nil, fmt.Errorf("%w: scheme %q", ErrUnsupportedSource, u.Scheme)
	}
	return openFile(src)
}

func openFile(path string) (image.Image, error) {
	img, err := imgio.Open(path)
	if err != nil {
		return nil, fmt.Errorf("texture: open %s: %w", path, err)
	}
	return img, nil
}

// decodeDataURL decodes data:image/<type>;base64,<payload>.
func decodeDataURL(src string) (image.Image, error) {
	meta, payload, ok := strings.Cut(src[len("data:"):], ",")
	if !ok {
		return nil, fmt.Errorf("%w: malformed data URL", ErrUnsupportedSource)
	}
	params := strings.Split(meta, ";")
	if !strings.HasPrefix(strings.ToLower(params[0]), "image/") {
		return nil, fmt.Errorf("%w: media type %q", ErrUnsupportedSource, params[0])
	}
	if !strings.EqualFold(params[len(params)-1], "base64") {
		return nil, fmt.Errorf("%w: data URL is not base64", ErrUnsupportedSource)
	}
	payload, err := url.PathUnescape(payload)
	if err != nil {
		return nil, fmt.Errorf("texture: data URL: %w", err)
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.RawStdEncoding.DecodeString(strings.TrimRight(payload, "="))
		if err != nil {
			return nil, fmt.Errorf("texture: data URL: %w", err)
		}
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("texture: data URL: %w", err)
	}
	return img, nil
}
