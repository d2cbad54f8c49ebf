package service

import (
	"encoding/base64"
	"strconv"
	"strings"
	"time"
)

// Cursors are opaque base64url tokens. Chronological pages encode the last
// item's created_at in unix millis; ranked pages encode "<score>_<millis>_<id>"
// so a resume can locate its exact position in the (score desc, created_at
// desc, id desc) order — the id disambiguates posts that tie on both score
// and millisecond. Anything that fails to decode is treated as "no cursor"
// on purpose: a stale or garbled token restarts from the newest page instead
// of erroring.

type feedCursor struct {
	score     float64
	hasScore  bool
	createdMs int64
	postID    int64
}

func encodeChronoCursor(createdAt time.Time) string {
	raw := strconv.FormatInt(createdAt.UnixMilli(), 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

func encodeRankedCursor(score float64, createdAt time.Time, postID int64) string {
	raw := strconv.FormatFloat(score, 'f', 4, 64) +
		"_" + strconv.FormatInt(createdAt.UnixMilli(), 10) +
		"_" + strconv.FormatInt(postID, 10)
	return base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// decodeCursor is lenient: nil means "start from the newest".
func decodeCursor(token string) *feedCursor {
	if token == "" {
		return nil
	}
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return nil
	}
	parts := strings.Split(string(raw), "_")
	switch len(parts) {
	case 1:
		ms, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil
		}
		return &feedCursor{createdMs: ms}
	case 3:
		score, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return nil
		}
		ms, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil {
			return nil
		}
		id, err := strconv.ParseInt(parts[2], 10, 64)
		if err != nil {
			return nil
		}
		return &feedCursor{score: score, hasScore: true, createdMs: ms, postID: id}
	default:
		return nil
	}
}
