package adapters

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"exercise_tracker/internal/feature/tracker/domain/entity"
	"exercise_tracker/internal/feature/tracker/usecase"
)

// exerciseGorm はExerciseRepositoryインターフェースのGORM実装です。
type exerciseGorm struct {
	db *gorm.DB
}

var _ usecase.ExerciseRepository = (*exerciseGorm)(nil)

// NewExerciseRepository は指定されたDB接続でexerciseGormの新しいインスタンスを生成します。
func NewExerciseRepository(db *gorm.DB) *exerciseGorm {
	return &exerciseGorm{db: db}
}

// Create はエントリを追加し、採番されたIDを設定します。
// ユーザーの存在確認は呼び出し側の責務です（外部キー制約のみ適用されます）。
func (r *exerciseGorm) Create(ctx context.Context, e *entity.Exercise) error {
	if e == nil {
		return errors.New("exercise is nil")
	}
	m := ExerciseModel{
		UserID:      e.UserID,
		Description: e.Description,
		Duration:    e.Duration,
		Date:        e.Date,
	}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*e = toExercise(m)
	return nil
}

// FindByID はIDでエントリを取得します。
// 存在しない場合、usecase.ErrExerciseNotFoundを返します。
func (r *exerciseGorm) FindByID(ctx context.Context, id uint) (*entity.Exercise, error) {
	var m ExerciseModel
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&m).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, usecase.ErrExerciseNotFound
		}
		return nil, err
	}
	e := toExercise(m)
	return &e, nil
}

// ListByUser は日付昇順（同日は登録順）でユーザーのエントリを返します。
func (r *exerciseGorm) ListByUser(ctx context.Context, userID uint, f entity.LogFilter) ([]entity.Exercise, error) {
	var rows []ExerciseModel
	q := r.filtered(ctx, userID, f).Order("date ASC").Order("id ASC")
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.Exercise, 0, len(rows))
	for _, m := range rows {
		out = append(out, toExercise(m))
	}
	return out, nil
}

// CountByUser は日付条件に一致するエントリ数を返します。Limitは無視されます。
func (r *exerciseGorm) CountByUser(ctx context.Context, userID uint, f entity.LogFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, userID, f).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *exerciseGorm) filtered(ctx context.Context, userID uint, f entity.LogFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&ExerciseModel{}).Where("user_id = ?", userID)
	if f.From != "" {
		q = q.Where("date >= ?", f.From)
	}
	if f.To != "" {
		q = q.Where("date <= ?", f.To)
	}
	return q
}
