package scene

import (
	"image"

	"go.uber.org/zap"

	"tileviz/internal/room"
)

// loadResult is a decoded tile image handed back to the window thread.
type loadResult struct {
	url string
	img image.Image
	err error
}

// fetch starts loading url unless a load is already running.
func (s *Scene) fetch(url string) {
	if s.loader == nil || s.inflight[url] {
		return
	}
	s.inflight[url] = true
	s.log.Debug("scene: loading tile image", zap.String("url", url))
	go func() {
		img, err := s.loader.Load(s.ctx, url)
		select {
		case s.results <- loadResult{url: url, img: img, err: err}:
		case <-s.ctx.Done():
		}
	}()
}

// drainResults applies finished loads. A result no wall uses any more is dropped.
func (s *Scene) drainResults() {
	for {
		select {
		case r := <-s.results:
			s.applyResult(r)
		default:
			return
		}
	}
}

func (s *Scene) applyResult(r loadResult) {
	delete(s.inflight, r.url)
	var users []room.WallID
	for _, id := range room.Walls {
		if s.model.Tile(id).ImageURL == r.url {
			users = append(users, id)
		}
	}
	if len(users) == 0 {
		s.log.Debug("scene: dropping stale tile image", zap.String("url", r.url))
		return
	}
	if r.err != nil {
		s.log.Warn("scene: loading tile image failed", zap.String("url", r.url), zap.Error(r.err))
		return
	}
	s.images[r.url] = r.img
	for _, id := range users {
		s.refreshWall(id)
	}
}

// forget drops cached images no wall refers to.
func (s *Scene) forget() {
	inUse := make(map[string]bool, len(room.Walls))
	for _, id := range room.Walls {
		inUse[s.model.Tile(id).ImageURL] = true
	}
	for url := range s.images {
		if !inUse[url] {
			delete(s.images, url)
		}
	}
}
