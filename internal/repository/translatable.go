package repository

import (
	"context"
	"slices"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"corpsite/internal/models"
)

// ListFilter is the admin list query shared by content repositories.
type ListFilter struct {
	Search string
	Active *bool
	Page   int
	Limit  int
}

// Normalized clamps page and limit to sane values.
func (f ListFilter) Normalized() ListFilter {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
	return f
}

func (f ListFilter) apply(q *gorm.DB) *gorm.DB {
	f = f.Normalized()
	return q.Limit(f.Limit).Offset((f.Page - 1) * f.Limit)
}

func likePattern(s string) string {
	s = strings.NewReplacer(`\`, `\\`, "%", `\%`, "_", `\_`).Replace(strings.TrimSpace(s))
	return "%" + s + "%"
}

// searchTranslations restricts q to parents having a translation whose column matches search.
func searchTranslations(q *gorm.DB, translationTable, parentColumn, column, search string) *gorm.DB {
	if strings.TrimSpace(search) == "" {
		return q
	}
	return q.Where("id IN (SELECT "+parentColumn+" FROM "+translationTable+" WHERE "+column+" LIKE ?)", likePattern(search))
}

// upsertTranslations writes rows for parentID, updating the row already held
// for a locale and inserting the rest. A (locale, slug) clash with another
// parent fails with gorm.ErrDuplicatedKey and never touches that parent's row.
func upsertTranslations[T models.Localized](tx *gorm.DB, parentColumn string, parentID uint, rows []T, columns ...string) error {
	for i := range rows {
		var n int64
		err := tx.Model(new(T)).
			Where(parentColumn+" = ? AND locale = ?", parentID, rows[i].LocaleCode()).
			Count(&n).Error
		if err != nil {
			return err
		}
		if n == 0 {
			err = tx.Create(&rows[i]).Error
		} else {
			err = tx.Model(new(T)).
				Where(parentColumn+" = ? AND locale = ?", parentID, rows[i].LocaleCode()).
				Select(append(columns, "updated_at")).
				Updates(&rows[i]).Error
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// upsertSeo inserts or updates SEO rows for one owner on (owner_type, owner_id, locale).
func upsertSeo(tx *gorm.DB, ownerType string, ownerID uint, rows []models.SeoMeta) error {
	if len(rows) == 0 {
		return nil
	}
	for i := range rows {
		rows[i].OwnerType = ownerType
		rows[i].OwnerID = ownerID
	}
	return tx.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "owner_type"}, {Name: "owner_id"}, {Name: "locale"}},
		DoUpdates: clause.AssignmentColumns([]string{"meta_title", "meta_description", "meta_keywords", "og_image_url", "no_index", "updated_at"}),
	}).Create(&rows).Error
}

func deleteSeo(tx *gorm.DB, ownerType string, ownerID uint) error {
	return tx.Where("owner_type = ? AND owner_id = ?", ownerType, ownerID).Delete(&models.SeoMeta{}).Error
}

// slugTaken reports whether slug is used in locale by a parent other than excludeID.
func slugTaken(ctx context.Context, db *gorm.DB, translation any, parentColumn, locale, slug string, excludeID uint) (bool, error) {
	q := db.WithContext(ctx).Model(translation).Where("locale = ? AND slug = ?", locale, slug)
	if excludeID != 0 {
		q = q.Where(parentColumn+" <> ?", excludeID)
	}
	var c int64
	err := q.Count(&c).Error
	return c > 0, err
}

// deleteTranslatable hard-deletes the translation rows of id and soft-deletes the parent.
func deleteTranslatable(tx *gorm.DB, parent, translation any, parentColumn string, id uint) error {
	if err := tx.Where(parentColumn+" = ?", id).Delete(translation).Error; err != nil {
		return err
	}
	res := tx.Delete(parent, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// reorder sets sort_order to each id's position in ids. Unknown ids fail the
// whole call with gorm.ErrRecordNotFound.
func reorder(ctx context.Context, db *gorm.DB, model any, ids []uint) error {
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var n int64
		if err := tx.Model(model).Where("id IN ?", ids).Count(&n).Error; err != nil {
			return err
		}
		if int(n) != len(slices.Compact(slices.Sorted(slices.Values(ids)))) {
			return gorm.ErrRecordNotFound
		}
		for i, id := range ids {
			if err := tx.Model(model).Where("id = ?", id).UpdateColumn("sort_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// updated returns gorm.ErrRecordNotFound when an update touched no row.
func updated(res *gorm.DB) error {
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func activeOrdered(q *gorm.DB) *gorm.DB {
	return q.Where("is_active = ?", true).Order("sort_order ASC, id ASC")
}

// slugMatch prefers the row in locale, otherwise the first row.
func slugMatch[T models.Localized](rows []T, locale string) (T, bool) {
	var zero T
	if len(rows) == 0 {
		return zero, false
	}
	for _, r := range rows {
		if r.LocaleCode() == locale {
			return r, true
		}
	}
	return rows[0], true
}
