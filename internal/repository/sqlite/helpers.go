package sqlite

import (
	"github.com/Masterminds/squirrel"
)

var sqlBuilder = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Question)

func withLimit(q squirrel.SelectBuilder, limit int) squirrel.SelectBuilder {
	if limit > 0 {
		return q.Limit(uint64(limit))
	}
	return q
}
