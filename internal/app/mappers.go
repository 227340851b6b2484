package app

import (
	"strconv"
	"strings"

	"venue_booking/internal/domain"
)

/********** alias registries (single source of truth) **********/

var venueAliases = map[string][]string{
	"name":    {"name", "venue_name", "title"},
	"address": {"address", "address_raw", "full_address", "location.address", "formatted_address"},
	"about":   {"about", "description", "summary"},
	"phone":   {"phone", "phone_number", "contact.phone"},
	"picture": {"image", "picture", "photo", "images.0", "photos.0"},
}

var menuAliases = map[string][]string{
	"name":    {"name", "item", "title", "dish"},
	"picture": {"image", "picture", "photo"},
}

var (
	latPaths      = []string{"lat", "latitude", "location.lat", "location.latitude", "coords.lat"}
	lonPaths      = []string{"lon", "lng", "longitude", "location.lon", "location.lng", "location.longitude", "coords.lon"}
	capacityPaths = []string{"capacity", "max_guests", "guests"}
	ownerPaths    = []string{"owner_id", "manager_id", "owner.id"}
	statusPaths   = []string{"status", "status_id"}
	menuPaths     = []string{"menu", "venue_food_menu", "food_menu"}
	pricePaths    = []string{"price", "cost", "amount"}
)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps and numeric indexes
// on slices.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		switch obj := cur.(type) {
		case map[string]any:
			v, ok := obj[part]
			if !ok {
				return nil
			}
			cur = v
		case []any:
			i, err := strconv.Atoi(part)
			if err != nil || i < 0 || i >= len(obj) {
				return nil
			}
			cur = obj[i]
		default:
			return nil
		}
	}
	return cur
}

// lookupStr returns the trimmed string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return strings.TrimSpace(s)
		}
	}
	return ""
}

// firstNonEmptyAlias: first non-empty string for a named alias set.
func firstNonEmptyAlias(m map[string]any, aliases map[string][]string, key string) *string {
	for _, p := range aliases[key] {
		if s := lookupStr(m, p); s != "" {
			return &s
		}
	}
	return nil
}

// getFloatFlexible: number from several paths (float64/int/string like "8,0").
func getFloatFlexible(m map[string]any, paths ...string) *float64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			f := v
			return &f
		case int:
			f := float64(v)
			return &f
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return &f
			}
		}
	}
	return nil
}

// firstInt64Flexible: int64 from several paths (float64/int/string).
func firstInt64Flexible(m map[string]any, paths ...string) *int64 {
	for _, k := range paths {
		switch v := lookupAny(m, k).(type) {
		case float64:
			x := int64(v)
			return &x
		case int:
			x := int64(v)
			return &x
		case int64:
			x := v
			return &x
		case string:
			s := strings.TrimSpace(v)
			if s == "" {
				continue
			}
			if n, err := strconv.ParseInt(s, 10, 64); err == nil {
				return &n
			}
		}
	}
	return nil
}

// firstSliceMaps returns the first list of objects found under paths.
func firstSliceMaps(m map[string]any, paths ...string) []map[string]any {
	for _, k := range paths {
		raw, ok := lookupAny(m, k).([]any)
		if !ok {
			continue
		}
		out := make([]map[string]any, 0, len(raw))
		for _, it := range raw {
			if obj, ok := it.(map[string]any); ok {
				out = append(out, obj)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return nil
}

// parseStatus accepts the numeric codes and their names.
func parseStatus(m map[string]any) *domain.VenueStatus {
	if n := firstInt64Flexible(m, statusPaths...); n != nil {
		s := domain.VenueStatus(*n)
		if s.Valid() {
			return &s
		}
		return nil
	}
	var s domain.VenueStatus
	switch strings.ToLower(lookupStr(m, "status")) {
	case "pending":
		s = domain.VenuePending
	case "approved":
		s = domain.VenueApproved
	case "rejected":
		s = domain.VenueRejected
	default:
		return nil
	}
	return &s
}

/********** seed record mapper **********/

// SeedVenue is one mapped seed record. Status is nil when the record did not
// carry one.
type SeedVenue struct {
	Venue  domain.Venue
	Status *domain.VenueStatus
}

// mapSeedVenue maps one loose JSON object. Records without a name are
// rejected; a lone latitude or longitude is dropped.
func mapSeedVenue(r map[string]any) (SeedVenue, bool) {
	name := firstNonEmptyAlias(r, venueAliases, "name")
	if name == nil {
		return SeedVenue{}, false
	}

	v := domain.Venue{
		Name:    *name,
		Address: firstNonEmptyAlias(r, venueAliases, "address"),
		About:   firstNonEmptyAlias(r, venueAliases, "about"),
		Phone:   firstNonEmptyAlias(r, venueAliases, "phone"),
		Picture: firstNonEmptyAlias(r, venueAliases, "picture"),
		Lat:     getFloatFlexible(r, latPaths...),
		Lon:     getFloatFlexible(r, lonPaths...),
		Menu:    []domain.MenuItem{},
	}
	if v.Lat == nil || v.Lon == nil || validateCoords(*v.Lat, *v.Lon) != nil {
		v.Lat, v.Lon = nil, nil
	}
	if n := firstInt64Flexible(r, capacityPaths...); n != nil && *n > 0 {
		c := int(*n)
		v.Capacity = &c
	}
	if id := firstInt64Flexible(r, ownerPaths...); id != nil {
		v.OwnerID = *id
	}

	for _, m := range firstSliceMaps(r, menuPaths...) {
		itemName := firstNonEmptyAlias(m, menuAliases, "name")
		price := getFloatFlexible(m, pricePaths...)
		if itemName == nil || price == nil || *price <= 0 {
			continue
		}
		v.Menu = append(v.Menu, domain.MenuItem{
			Name:    *itemName,
			Price:   *price,
			Picture: firstNonEmptyAlias(m, menuAliases, "picture"),
		})
	}

	return SeedVenue{Venue: v, Status: parseStatus(r)}, true
}
