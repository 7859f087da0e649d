package model

// Report rows. Fields returns the row's values in output order; an absent
// value is returned as nil.

// ReviewedRelease is a release a viewer has reviewed
type ReviewedRelease struct {
	RID   int     `gorm:"column:rid"`
	Genre *string `gorm:"column:genre"`
	Title string  `gorm:"column:title"`
}

func (r ReviewedRelease) Fields() []interface{} {
	return []interface{}{r.RID, opt(r.Genre), r.Title}
}

// PopularRelease is a release with its number of reviews
type PopularRelease struct {
	RID         int    `gorm:"column:rid"`
	Title       string `gorm:"column:title"`
	ReviewCount int64  `gorm:"column:review_count"`
}

func (r PopularRelease) Fields() []interface{} {
	return []interface{}{r.RID, r.Title, r.ReviewCount}
}

// SessionRelease is the release and video a session watched
type SessionRelease struct {
	RID        int     `gorm:"column:rid"`
	Title      string  `gorm:"column:title"`
	Genre      *string `gorm:"column:genre"`
	VideoTitle *string `gorm:"column:video_title"`
	EpNum      int     `gorm:"column:ep_num"`
	Length     *int    `gorm:"column:length"`
}

func (r SessionRelease) Fields() []interface{} {
	return []interface{}{r.RID, r.Title, opt(r.Genre), opt(r.VideoTitle), r.EpNum, opt(r.Length)}
}

// ActiveViewer is a viewer who met a session threshold in a time window
type ActiveViewer struct {
	UID   int     `gorm:"column:uid"`
	First *string `gorm:"column:first"`
	Last  *string `gorm:"column:last"`
}

func (r ActiveViewer) Fields() []interface{} {
	return []interface{}{r.UID, opt(r.First), opt(r.Last)}
}

// VideoViewership is a video with the number of distinct viewers who watched it
type VideoViewership struct {
	RID         int     `gorm:"column:rid"`
	EpNum       int     `gorm:"column:ep_num"`
	Title       *string `gorm:"column:title"`
	Length      *int    `gorm:"column:length"`
	ViewerCount int64   `gorm:"column:viewer_count"`
}

func (r VideoViewership) Fields() []interface{} {
	return []interface{}{r.RID, r.EpNum, opt(r.Title), opt(r.Length), r.ViewerCount}
}

func opt[T any](p *T) interface{} {
	if p == nil {
		return nil
	}
	return *p
}
