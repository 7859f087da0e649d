package model

// Managed table names. Each is also the base name of its CSV seed file.
const (
	TableUsers     = "users"
	TableViewers   = "viewers"
	TableProducers = "producers"
	TableReleases  = "releases"
	TableSeries    = "series"
	TableMovies    = "movies"
	TableVideos    = "videos"
	TableReviews   = "reviews"
	TableSessions  = "sessions"
)

// Table describes a managed table and the fixed column order of its seed file
type Table struct {
	Name    string
	Columns []string
}

// Tables lists every managed table in dependency order: a table appears after
// every table it references.
var Tables = []Table{
	{Name: TableUsers, Columns: []string{"uid", "email", "nickname", "street", "city", "state", "zip", "genres", "joined_date"}},
	{Name: TableViewers, Columns: []string{"uid", "first", "last", "subscription"}},
	{Name: TableProducers, Columns: []string{"uid", "company", "bio"}},
	{Name: TableReleases, Columns: []string{"rid", "title", "genre", "release_date", "producer_uid"}},
	{Name: TableSeries, Columns: []string{"rid", "introduction"}},
	{Name: TableMovies, Columns: []string{"rid", "website_url"}},
	{Name: TableVideos, Columns: []string{"rid", "ep_num", "title", "length"}},
	{Name: TableReviews, Columns: []string{"rvid", "uid", "rid", "rating", "body", "posted_at"}},
	{Name: TableSessions, Columns: []string{"sid", "uid", "rid", "ep_num", "initiate_at", "leave_at", "quality", "device"}},
}

// LookupTable returns the managed table with the given name
func LookupTable(name string) (Table, bool) {
	for _, t := range Tables {
		if t.Name == name {
			return t, true
		}
	}
	return Table{}, false
}

// TableRows holds parsed seed records for one table. A nil value is an
// absent field and is stored as NULL.
type TableRows struct {
	Table Table
	Rows  [][]*string
}
