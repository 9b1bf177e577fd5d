package domain

// Page is the paginated response envelope.
// It is rebuilt from (content, pageable, total) only and holds no engine state.
type Page struct {
	Content          []*Course `json:"content"`
	Page             int       `json:"page"` // zero-based
	Size             int       `json:"size"`
	TotalElements    int64     `json:"totalElements"` // matches across all pages
	TotalPages       int       `json:"totalPages"`
	NumberOfElements int       `json:"numberOfElements"`
	First            bool      `json:"first"`
	Last             bool      `json:"last"`
}

// NewPage wraps one window of content with pagination metadata.
// total is the executor's total hit count; len(content) is never used in its place.
func NewPage(content []*Course, pageable Pageable, total int64) *Page {
	if content == nil {
		content = []*Course{}
	}

	totalPages := 0
	if pageable.Size > 0 {
		totalPages = int(total / int64(pageable.Size))
		if total%int64(pageable.Size) > 0 {
			totalPages++
		}
	}

	return &Page{
		Content:          content,
		Page:             pageable.Page,
		Size:             pageable.Size,
		TotalElements:    total,
		TotalPages:       totalPages,
		NumberOfElements: len(content),
		First:            pageable.Page == 0,
		Last:             pageable.Page+1 >= totalPages,
	}
}
