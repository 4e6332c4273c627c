package drive

import (
	"encoding/json"
	"fmt"
)

// WallRecord is the persisted form of a wall.
type WallRecord struct {
	Point1 Point `json:"point1"`
	Point2 Point `json:"point2"`
}

// TrackRecord is the persisted form of a track.
type TrackRecord struct {
	Width  float64      `json:"width"`
	Height float64      `json:"height"`
	Walls  []WallRecord `json:"walls"`
	Goal   Goal         `json:"goal"`
}

// Record captures the track dimensions, walls in order and goal.
func (t *Track) Record() TrackRecord {
	rec := TrackRecord{
		Width:  t.width,
		Height: t.height,
		Walls:  make([]WallRecord, len(t.walls)),
		Goal:   t.goal,
	}
	for i, w := range t.walls {
		rec.Walls[i] = WallRecord{Point1: w.start, Point2: w.end}
	}
	return rec
}

// TrackFromRecord rebuilds a track. The walls are taken verbatim, so a record
// without its boundary walls yields an open track.
func TrackFromRecord(rec TrackRecord) (*Track, error) {
	if rec.Width <= 0 || rec.Height <= 0 {
		return nil, configErrorf("width", "track dimensions must be positive, got %gx%g", rec.Width, rec.Height)
	}
	t := &Track{width: rec.Width, height: rec.Height, goal: rec.Goal}
	for _, w := range rec.Walls {
		t.AddWall(NewWall(w.Point1.X, w.Point1.Y, w.Point2.X, w.Point2.Y))
	}
	return t, nil
}

// EncodeTrack serializes a track as JSON.
func EncodeTrack(t *Track) ([]byte, error) {
	return json.Marshal(t.Record())
}

type rawPoint struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

func (p *rawPoint) point(where string) (Point, error) {
	if p == nil {
		return Point{}, fmt.Errorf("%w: missing %s", ErrMalformedRecord, where)
	}
	if p.X == nil || p.Y == nil {
		return Point{}, fmt.Errorf("%w: %s: missing coordinate", ErrMalformedRecord, where)
	}
	return Point{X: *p.X, Y: *p.Y}, nil
}

type rawTrack struct {
	Width  *float64 `json:"width"`
	Height *float64 `json:"height"`
	Walls  *[]struct {
		Point1 *rawPoint `json:"point1"`
		Point2 *rawPoint `json:"point2"`
	} `json:"walls"`
	Goal *struct {
		Center *rawPoint `json:"center"`
		Radius *float64  `json:"radius"`
	} `json:"goal"`
}

// DecodeTrackRecord parses a JSON track record, failing fast on missing fields.
func DecodeTrackRecord(data []byte) (TrackRecord, error) {
	var raw rawTrack
	if err := json.Unmarshal(data, &raw); err != nil {
		return TrackRecord{}, fmt.Errorf("%w: %v", ErrMalformedRecord, err)
	}
	switch {
	case raw.Width == nil:
		return TrackRecord{}, fmt.Errorf("%w: missing width", ErrMalformedRecord)
	case raw.Height == nil:
		return TrackRecord{}, fmt.Errorf("%w: missing height", ErrMalformedRecord)
	case raw.Walls == nil:
		return TrackRecord{}, fmt.Errorf("%w: missing walls", ErrMalformedRecord)
	case raw.Goal == nil:
		return TrackRecord{}, fmt.Errorf("%w: missing goal", ErrMalformedRecord)
	case raw.Goal.Radius == nil:
		return TrackRecord{}, fmt.Errorf("%w: missing goal radius", ErrMalformedRecord)
	}

	center, err := raw.Goal.Center.point("goal center")
	if err != nil {
		return TrackRecord{}, err
	}
	rec := TrackRecord{
		Width:  *raw.Width,
		Height: *raw.Height,
		Walls:  make([]WallRecord, len(*raw.Walls)),
		Goal:   Goal{Center: center, Radius: *raw.Goal.Radius},
	}
	for i, w := range *raw.Walls {
		p1, err := w.Point1.point(fmt.Sprintf("walls[%d].point1", i))
		if err != nil {
			return TrackRecord{}, err
		}
		p2, err := w.Point2.point(fmt.Sprintf("walls[%d].point2", i))
		if err != nil {
			return TrackRecord{}, err
		}
		rec.Walls[i] = WallRecord{Point1: p1, Point2: p2}
	}
	return rec, nil
}

// DecodeTrack parses and rebuilds a track in one step.
func DecodeTrack(data []byte) (*Track, error) {
	rec, err := DecodeTrackRecord(data)
	if err != nil {
		return nil, err
	}
	return TrackFromRecord(rec)
}
