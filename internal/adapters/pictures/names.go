// Package pictures stores uploaded images on local disk or in an S3
// compatible bucket.
package pictures

import (
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"

	"venue_booking/internal/domain"
)

var allowedExt = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".webp": true,
}

// Namer hands out upload names of the form <unix-millis><ext>. Names are
// strictly increasing within a process so two uploads in the same
// millisecond do not collide.
type Namer struct {
	mu   sync.Mutex
	last int64
	now  func() time.Time
}

func NewNamer() *Namer { return &Namer{now: time.Now} }

// Name derives a stored name from the client supplied file name.
func (n *Namer) Name(original string) (string, error) {
	ext := strings.ToLower(filepath.Ext(original))
	if !allowedExt[ext] {
		return "", domain.Invalid("Only jpg, jpeg, png, gif and webp images are allowed")
	}
	n.mu.Lock()
	ms := n.now().UnixMilli()
	if ms <= n.last {
		ms = n.last + 1
	}
	n.last = ms
	n.mu.Unlock()
	return strconv.FormatInt(ms, 10) + ext, nil
}

// validName rejects anything that is not a bare file name.
func validName(name string) bool {
	if name == "" || name == "." || name == ".." {
		return false
	}
	return !strings.ContainsAny(name, `/\`)
}

func validKind(k domain.PictureKind) bool {
	switch k {
	case domain.PictureVenue, domain.PictureFoodItem, domain.PictureProfile:
		return true
	}
	return false
}
