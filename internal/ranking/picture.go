package ranking

import (
	"path"
	"strings"

	"venue_booking/internal/domain"
)

const (
	VenuePrefix    = "/venues/"
	FoodItemPrefix = "/foodItems/"
	ProfilePrefix  = "/profiles/"
)

// PublicURL maps a stored file path to the URL clients fetch it from.
// Only the base name survives, so rewriting an already public URL is a no-op.
func PublicURL(prefix string, stored *string) *string {
	if stored == nil {
		return nil
	}
	p := strings.TrimSpace(strings.ReplaceAll(*stored, `\`, "/"))
	if p == "" {
		return nil
	}
	base := path.Base(p)
	if base == "/" || base == "." || base == ".." {
		return nil
	}
	u := prefix + base
	return &u
}

func VenuePicture(stored *string) *string    { return PublicURL(VenuePrefix, stored) }
func FoodItemPicture(stored *string) *string { return PublicURL(FoodItemPrefix, stored) }
func ProfilePicture(stored *string) *string  { return PublicURL(ProfilePrefix, stored) }

// PublicMenuItem returns a copy of it with its picture rewritten.
func PublicMenuItem(it domain.MenuItem) domain.MenuItem {
	it.Picture = FoodItemPicture(it.Picture)
	return it
}

// PublicVenue returns a copy of v with every picture rewritten and a non-nil
// menu. The input, including its menu backing array, is left untouched.
func PublicVenue(v domain.Venue) domain.Venue {
	v.Picture = VenuePicture(v.Picture)
	menu := make([]domain.MenuItem, 0, len(v.Menu))
	for _, it := range v.Menu {
		menu = append(menu, PublicMenuItem(it))
	}
	v.Menu = menu
	if v.Owner != nil {
		o := *v.Owner
		o.ProfilePic = ProfilePicture(o.ProfilePic)
		v.Owner = &o
	}
	return v
}

// PublicAccount rewrites the profile picture of a.
func PublicAccount(a domain.Account) domain.Account {
	a.ProfilePic = ProfilePicture(a.ProfilePic)
	return a
}
