package search

import (
	"math"
	"net/url"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/Abdurahmanit/GroupProject/advert-service/internal/advert/domain"
	"github.com/gorilla/schema"
)

// rawParams mirrors the accepted query string before any typing.
type rawParams struct {
	Search               string   `schema:"search"`
	Type                 string   `schema:"type"`
	CategoryID           []string `schema:"categoryId"`
	IncludeSubcategories string   `schema:"includeSubcategories"`
	TagID                []string `schema:"tagId"`
	TagOperator          string   `schema:"tagOperator"`
	Location             string   `schema:"location"`
	IsUrgent             string   `schema:"isUrgent"`
	IsActive             string   `schema:"isActive"`
	IsArchived           string   `schema:"isArchived"`
	OwnerID              string   `schema:"ownerId"`
	ProfileID            string   `schema:"profileId"`
	MinRating            string   `schema:"minRating"`
	MaxRating            string   `schema:"maxRating"`
	MinViews             string   `schema:"minViews"`
	MaxViews             string   `schema:"maxViews"`
	MinApplications      string   `schema:"minApplications"`
	MaxApplications      string   `schema:"maxApplications"`
	ExpiresBefore        string   `schema:"expiresBefore"`
	ExpiresAfter         string   `schema:"expiresAfter"`
	MinCreatedAt         string   `schema:"minCreatedAt"`
	MaxCreatedAt         string   `schema:"maxCreatedAt"`
	MinAuthorRating      string   `schema:"minAuthorRating"`
	MaxAuthorRating      string   `schema:"maxAuthorRating"`
	Longitude            string   `schema:"longitude"`
	Latitude             string   `schema:"latitude"`
	MaxDistance          string   `schema:"maxDistance"`
	HasPortfolio         string   `schema:"hasPortfolio"`
	Languages            []string `schema:"languages"`
	Page                 string   `schema:"page"`
	Limit                string   `schema:"limit"`
	SortBy               string   `schema:"sortBy"`
	SortOrder            string   `schema:"sortOrder"`
}

// Express-style array keys: tagId[]=a or tagId[0]=a.
var arrayKeySuffix = regexp.MustCompile(`\[\d*\]$`)

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// Normalizer turns raw query parameters into a FilterSpec. It is stateless and
// safe for concurrent use.
type Normalizer struct {
	decoder *schema.Decoder
}

func NewNormalizer() *Normalizer {
	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)
	return &Normalizer{decoder: decoder}
}

func (n *Normalizer) Normalize(values url.Values) (*domain.FilterSpec, error) {
	var raw rawParams
	if err := n.decoder.Decode(&raw, canonicalKeys(values)); err != nil {
		return nil, domain.NewInvalidParameter("query", "", err.Error())
	}

	p := &parser{}
	spec := &domain.FilterSpec{
		Search:      strings.TrimSpace(raw.Search),
		Location:    strings.TrimSpace(raw.Location),
		OwnerID:     strings.TrimSpace(raw.OwnerID),
		ProfileID:   strings.TrimSpace(raw.ProfileID),
		CategoryIDs: cleanList(raw.CategoryID),
		TagIDs:      cleanList(raw.TagID),
		MaxDistance: domain.DefaultMaxDistance,
	}

	if t := strings.TrimSpace(raw.Type); t != "" {
		spec.Type = domain.AdvertType(strings.ToLower(t))
		if !spec.Type.Valid() {
			p.fail("type", t, "must be one of service, goods, skill, experience")
		}
	}

	if inc := p.boolean("includeSubcategories", raw.IncludeSubcategories); inc != nil {
		spec.IncludeSubcategories = *inc
	}
	spec.IsUrgent = p.boolean("isUrgent", raw.IsUrgent)

	spec.TagOperator = domain.TagOperatorOr
	if op := strings.ToLower(strings.TrimSpace(raw.TagOperator)); op != "" {
		switch domain.TagOperator(op) {
		case domain.TagOperatorOr, domain.TagOperatorAnd:
			spec.TagOperator = domain.TagOperator(op)
		default:
			p.fail("tagOperator", raw.TagOperator, "must be or or and")
		}
	}

	spec.IsActive = p.triState("isActive", raw.IsActive)
	if spec.IsActive == domain.TriUnset {
		spec.IsActive = domain.TriTrue
	}
	spec.IsArchived = p.triState("isArchived", raw.IsArchived)
	spec.HasPortfolio = p.triState("hasPortfolio", raw.HasPortfolio)

	spec.MinRating = p.number("minRating", raw.MinRating, 0, 5)
	spec.MaxRating = p.number("maxRating", raw.MaxRating, 0, 5)
	spec.MinViews = p.number("minViews", raw.MinViews, 0, math.MaxFloat64)
	spec.MaxViews = p.number("maxViews", raw.MaxViews, 0, math.MaxFloat64)
	spec.MinApplications = p.number("minApplications", raw.MinApplications, 0, math.MaxFloat64)
	spec.MaxApplications = p.number("maxApplications", raw.MaxApplications, 0, math.MaxFloat64)
	spec.MinAuthorRating = p.number("minAuthorRating", raw.MinAuthorRating, 0, 5)
	spec.MaxAuthorRating = p.number("maxAuthorRating", raw.MaxAuthorRating, 0, 5)
	spec.Longitude = p.number("longitude", raw.Longitude, -180, 180)
	spec.Latitude = p.number("latitude", raw.Latitude, -90, 90)
	if d := p.number("maxDistance", raw.MaxDistance, 0, math.MaxFloat64); d != nil {
		if *d <= 0 {
			p.fail("maxDistance", raw.MaxDistance, "must be greater than zero")
		} else {
			spec.MaxDistance = *d
		}
	}

	p.ordered("minRating", spec.MinRating, spec.MaxRating)
	p.ordered("minViews", spec.MinViews, spec.MaxViews)
	p.ordered("minApplications", spec.MinApplications, spec.MaxApplications)
	p.ordered("minAuthorRating", spec.MinAuthorRating, spec.MaxAuthorRating)

	spec.ExpiresBefore = p.date("expiresBefore", raw.ExpiresBefore)
	spec.ExpiresAfter = p.date("expiresAfter", raw.ExpiresAfter)
	spec.MinCreatedAt = p.date("minCreatedAt", raw.MinCreatedAt)
	spec.MaxCreatedAt = p.date("maxCreatedAt", raw.MaxCreatedAt)

	for _, lang := range cleanList(raw.Languages) {
		if len([]rune(lang)) > domain.MaxLanguageLength {
			p.fail("languages", lang, "each language must be at most 50 characters")
			continue
		}
		spec.Languages = append(spec.Languages, lang)
	}

	spec.Page = clampInt(raw.Page, domain.DefaultPage, 1, math.MaxInt32)
	spec.Limit = clampInt(raw.Limit, domain.DefaultLimit, 1, domain.MaxLimit)

	spec.SortBy = domain.SortByCreatedAt
	if s := strings.TrimSpace(raw.SortBy); s != "" {
		spec.SortBy = domain.SortField(s)
		if !spec.SortBy.Allowed() {
			p.fail("sortBy", s, "unsupported sort field")
		}
	}
	spec.SortOrder = domain.SortDesc
	if s := strings.ToLower(strings.TrimSpace(raw.SortOrder)); s != "" {
		switch domain.SortOrder(s) {
		case domain.SortAsc, domain.SortDesc:
			spec.SortOrder = domain.SortOrder(s)
		default:
			p.fail("sortOrder", raw.SortOrder, "must be asc or desc")
		}
	}

	if p.err != nil {
		return nil, p.err
	}
	return spec, nil
}

// parser keeps the first validation failure; later checks become no-ops.
type parser struct {
	err error
}

func (p *parser) fail(field, value, reason string) {
	if p.err == nil {
		p.err = domain.NewInvalidParameter(field, value, reason)
	}
}

func (p *parser) number(field, raw string, min, max float64) *float64 {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		p.fail(field, raw, "must be a number")
		return nil
	}
	if v < min || v > max {
		p.fail(field, raw, "out of range")
		return nil
	}
	return &v
}

func (p *parser) ordered(field string, min, max *float64) {
	if min != nil && max != nil && *min > *max {
		p.fail(field, strconv.FormatFloat(*min, 'f', -1, 64), "minimum exceeds maximum")
	}
}

func (p *parser) date(field, raw string) *time.Time {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	p.fail(field, raw, "must be an ISO-8601 date")
	return nil
}

func (p *parser) boolean(field, raw string) *bool {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(field, raw, "must be true or false")
		return nil
	}
	return &v
}

func (p *parser) triState(field, raw string) domain.TriState {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return domain.TriUnset
	case "true":
		return domain.TriTrue
	case "false":
		return domain.TriFalse
	case "any":
		return domain.TriAny
	}
	p.fail(field, raw, "must be true, false or any")
	return domain.TriUnset
}

func canonicalKeys(values url.Values) map[string][]string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	out := make(map[string][]string, len(values))
	for _, key := range keys {
		k := arrayKeySuffix.ReplaceAllString(key, "")
		out[k] = append(out[k], values[key]...)
	}
	return out
}

// cleanList trims, drops empties and de-duplicates while keeping order.
func cleanList(in []string) []string {
	var out []string
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// clampInt never rejects: unparsable values take the default, others are clamped.
func clampInt(raw string, def, min, max int) int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return def
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil || math.IsNaN(f) {
		return def
	}
	switch {
	case f < float64(min):
		return min
	case f > float64(max):
		return max
	}
	return int(f)
}
