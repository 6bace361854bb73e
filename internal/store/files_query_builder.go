package store

import (
	"strings"
	"time"

	"filehub/internal/models"
)

// ListQuery describes filtering, ordering, and pagination for file
// record listings. Page numbers are 1-based.
type ListQuery struct {
	Search         string
	FileType       string
	IsDuplicate    *bool
	MinSize        *int64
	MaxSize        *int64
	UploadedAfter  *time.Time
	UploadedBefore *time.Time
	Ordering       models.Ordering
	Page           int
	PageSize       int
}

type filesQueryBuilder struct {
	query ListQuery
	where []string
	args  []any
}

func newFilesQueryBuilder(query ListQuery) *filesQueryBuilder {
	b := &filesQueryBuilder{query: query}
	b.appendSearch()
	b.appendFileType()
	b.appendIsDuplicate()
	b.appendSizeRange()
	b.appendUploadedRange()
	return b
}

func (b *filesQueryBuilder) countQuery() (string, []any) {
	return "SELECT COUNT(*) FROM files" + b.whereClause(), b.args
}

func (b *filesQueryBuilder) pageQuery() (string, []any) {
	sql := "SELECT " + fileColumns + " FROM files" + b.whereClause() + b.orderClause()
	args := append([]any{}, b.args...)

	if b.query.PageSize > 0 {
		sql += " LIMIT ?"
		args = append(args, b.query.PageSize)
		if b.query.Page > 1 {
			sql += " OFFSET ?"
			args = append(args, (b.query.Page-1)*b.query.PageSize)
		}
	}
	return sql, args
}

func (b *filesQueryBuilder) whereClause() string {
	if len(b.where) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.where, " AND ")
}

// orderClause breaks ties by upload time and id so paging is stable.
func (b *filesQueryBuilder) orderClause() string {
	direction := "ASC"
	if b.query.Ordering.Descending {
		direction = "DESC"
	}

	switch b.query.Ordering.Field {
	case models.OrderBySize:
		return " ORDER BY size_bytes " + direction + ", uploaded_at ASC, id ASC"
	case models.OrderByOriginalFilename:
		return " ORDER BY original_filename COLLATE NOCASE " + direction + ", uploaded_at ASC, id ASC"
	default:
		return " ORDER BY uploaded_at " + direction + ", id ASC"
	}
}

func (b *filesQueryBuilder) appendSearch() {
	if b.query.Search == "" {
		return
	}
	b.where = append(b.where, `LOWER(original_filename) LIKE ? ESCAPE '\'`)
	b.args = append(b.args, "%"+strings.ToLower(escapeLike(b.query.Search))+"%")
}

func (b *filesQueryBuilder) appendFileType() {
	if b.query.FileType == "" {
		return
	}
	b.where = append(b.where, "LOWER(file_type) = ?")
	b.args = append(b.args, strings.ToLower(b.query.FileType))
}

func (b *filesQueryBuilder) appendIsDuplicate() {
	if b.query.IsDuplicate == nil {
		return
	}
	b.where = append(b.where, "is_duplicate = ?")
	b.args = append(b.args, boolToInt(*b.query.IsDuplicate))
}

func (b *filesQueryBuilder) appendSizeRange() {
	if b.query.MinSize != nil {
		b.where = append(b.where, "size_bytes >= ?")
		b.args = append(b.args, *b.query.MinSize)
	}
	if b.query.MaxSize != nil {
		b.where = append(b.where, "size_bytes <= ?")
		b.args = append(b.args, *b.query.MaxSize)
	}
}

func (b *filesQueryBuilder) appendUploadedRange() {
	if b.query.UploadedAfter != nil {
		b.where = append(b.where, "uploaded_at >= ?")
		b.args = append(b.args, formatTime(*b.query.UploadedAfter))
	}
	if b.query.UploadedBefore != nil {
		b.where = append(b.where, "uploaded_at <= ?")
		b.args = append(b.args, formatTime(*b.query.UploadedBefore))
	}
}

// escapeLike neutralizes LIKE wildcards in user-supplied search text.
func escapeLike(s string) string {
	s = strings.ReplaceAll(s, `%`, `\%`)
	return strings.ReplaceAll(s, `_`, `\_`)
}
