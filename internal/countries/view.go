package countries

import "countries_app_echo/internal/models"

// Phase is the load state of a Home screen.
type Phase string

const (
	PhaseLoading   Phase = "loading"
	PhaseEmpty     Phase = "empty"
	PhasePopulated Phase = "populated"
)

// View is the derived state of one Home screen instance. The zero value is
// not ready; use NewView. View is not safe for concurrent use.
type View struct {
	phase     Phase
	fetchErr  error
	countries []models.Country
	region    string
	cursor    int
	slider    *models.Country
	featured  *models.Country
}

// NewView returns a view in the Loading phase with default filter and cursor.
func NewView() *View {
	return &View{
		phase:  PhaseLoading,
		region: RegionAll,
		cursor: PageSize,
	}
}

// Apply settles the fetch. Only the first call has any effect; it reports
// whether the result was applied.
func (v *View) Apply(res FetchResult, rng RandomSource) bool {
	if v.phase != PhaseLoading {
		return false
	}
	if !res.OK() || len(res.Countries) == 0 {
		v.phase = PhaseEmpty
		v.fetchErr = res.Err
		v.countries = nil
		return true
	}

	v.phase = PhasePopulated
	v.countries = res.Countries
	if c, ok := SliderDefault(v.countries); ok {
		v.slider = &c
	}
	if c, ok := PickFeatured(v.countries, rng); ok {
		v.featured = &c
	}
	return true
}

// SetRegion changes the filter and resets the cursor to PageSize.
func (v *View) SetRegion(region string) {
	v.region = region
	v.cursor = PageSize
}

// LoadMore advances the cursor by PageSize. The cursor is not capped.
func (v *View) LoadMore() {
	v.cursor += PageSize
}

// Select makes the first record named name the slider selection.
func (v *View) Select(name string) bool {
	c, ok := FindByName(v.countries, name)
	if !ok {
		return false
	}
	v.slider = &c
	return true
}

func (v *View) Phase() Phase          { return v.phase }
func (v *View) Loading() bool         { return v.phase == PhaseLoading }
func (v *View) Region() string        { return v.region }
func (v *View) Cursor() int           { return v.cursor }
func (v *View) FetchErr() error       { return v.fetchErr }
func (v *View) All() []models.Country { return v.countries }

// Filtered returns the collection narrowed to the current region.
func (v *View) Filtered() []models.Country {
	return FilterByRegion(v.countries, v.region)
}

// Visible returns the part of Filtered currently rendered in the grid.
func (v *View) Visible() []models.Country {
	return VisibleSlice(v.Filtered(), v.cursor)
}

// HasMore reports whether "load more" should be offered.
func (v *View) HasMore() bool {
	return v.cursor < len(v.Filtered())
}

func (v *View) Slider() (models.Country, bool) {
	if v.slider == nil {
		return models.Country{}, false
	}
	return *v.slider, true
}

func (v *View) Featured() (models.Country, bool) {
	if v.featured == nil {
		return models.Country{}, false
	}
	return *v.featured, true
}

// Snapshot is an immutable copy of a View for rendering.
type Snapshot struct {
	Phase    Phase
	Region   string
	Cursor   int
	Visible  []models.Country
	HasMore  bool
	Slider   *models.Country
	Featured *models.Country
}

// Snapshot copies the render-relevant state of v.
func (v *View) Snapshot() Snapshot {
	s := Snapshot{
		Phase:   v.phase,
		Region:  v.region,
		Cursor:  v.cursor,
		Visible: append([]models.Country(nil), v.Visible()...),
		HasMore: v.HasMore(),
	}
	if c, ok := v.Slider(); ok {
		s.Slider = &c
	}
	if c, ok := v.Featured(); ok {
		s.Featured = &c
	}
	return s
}
