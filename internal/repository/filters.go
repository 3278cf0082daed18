package repository

import (
	"strings"

	"storefront/internal/domain/models"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
)

// postPredicates: tagIds - хотя бы один тег из списка, searchTerm - подстрока в title или content без учёта регистра.
func postPredicates(f models.PostFilter) sq.And {
	preds := sq.And{}

	if len(f.TagIDs) > 0 {
		preds = append(preds, hasAnyTag("p.id", "post_tags", "post_id", f.TagIDs))
	}

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		pattern := likePattern(term)
		preds = append(preds, sq.Or{
			sq.ILike{"p.title": pattern},
			sq.ILike{"p.content": pattern},
		})
	}

	return preds
}

func productPredicates(f models.ProductFilter) sq.And {
	preds := sq.And{}

	if len(f.TagIDs) > 0 {
		preds = append(preds, hasAnyTag("p.id", "product_tags", "product_id", f.TagIDs))
	}

	if term := strings.TrimSpace(f.SearchTerm); term != "" {
		pattern := likePattern(term)
		preds = append(preds, sq.Or{
			sq.ILike{"p.name": pattern},
			sq.ILike{"p.description": pattern},
		})
	}

	if f.Category != "" {
		preds = append(preds, sq.Eq{"p.category": f.Category})
	}

	return preds
}

func hasAnyTag(idColumn, junction, ownerColumn string, tagIDs []uuid.UUID) sq.Sqlizer {
	sub, args, err := sq.Select(ownerColumn).
		From(junction).
		Where(sq.Eq{"tag_id": tagIDs}).
		ToSql()
	if err != nil {
		return sq.Expr("FALSE")
	}

	return sq.Expr(idColumn+" IN ("+sub+")", args...)
}

// dateRangePredicates - [From, To) по указанной колонке.
func dateRangePredicates(column string, r models.DateRange) sq.And {
	preds := sq.And{}
	if r.From != nil {
		preds = append(preds, sq.GtOrEq{column: *r.From})
	}
	if r.To != nil {
		preds = append(preds, sq.Lt{column: *r.To})
	}
	return preds
}
