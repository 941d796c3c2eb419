package usecase

import (
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"exercise_tracker/internal/feature/tracker/domain"
	"exercise_tracker/internal/feature/tracker/domain/entity"
)

const (
	// MaxUsernameLength はトリム後のユーザー名の最大文字数（rune単位）です。
	MaxUsernameLength = 100
	// MaxDescriptionLength はトリム後の説明文の最大文字数（rune単位）です。
	MaxDescriptionLength = 500

	dateLayout = "2006-01-02"
)

var datePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// ValidateUsername は登録用のユーザー名を検証し、トリム済みの値を返します。
// nil はフィールドが存在しないか文字列でないことを表します。
func ValidateUsername(username *string) (string, error) {
	if username == nil {
		return "", domain.InvalidInput("Username is required and must be a string")
	}
	trimmed := strings.TrimSpace(*username)
	if trimmed == "" {
		return "", domain.InvalidInput("Username cannot be empty")
	}
	if utf8.RuneCountInString(trimmed) > MaxUsernameLength {
		return "", domain.InvalidInput("Username cannot exceed 100 characters")
	}
	return trimmed, nil
}

// ValidateExerciseData はエクササイズ入力の全フィールドを検証し、
// すべての違反を ", " で連結して一度に返します。日付が省略された場合は now のUTC日付を使います。
func ValidateExerciseData(in entity.ExerciseInput, now func() time.Time) (description string, duration int, date string, err error) {
	var errs []string

	if in.Description == nil || strings.TrimSpace(*in.Description) == "" {
		errs = append(errs, "Description is required and cannot be empty")
	} else {
		description = strings.TrimSpace(*in.Description)
		if utf8.RuneCountInString(description) > MaxDescriptionLength {
			errs = append(errs, "Description cannot exceed 500 characters")
		}
	}

	// 0 も未指定と同じく不正
	duration, ok := parsePositiveInt(in.Duration)
	if !ok {
		errs = append(errs, "Duration is required and must be a positive integer")
	}

	if in.Date != "" {
		switch {
		case !datePattern.MatchString(in.Date):
			errs = append(errs, "Date must be in YYYY-MM-DD format")
		case !isCalendarDate(in.Date):
			errs = append(errs, "Invalid date provided")
		default:
			date = in.Date
		}
	} else {
		date = now().UTC().Format(dateLayout)
	}

	if len(errs) > 0 {
		return "", 0, "", domain.InvalidInput(strings.Join(errs, ", "))
	}
	return description, duration, date, nil
}

// ValidateUserID はユーザーIDを解析します。
// 符号・先頭ゼロ・前後の空白を含まない正の整数のみ受け付けます。
func ValidateUserID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) || strconv.FormatUint(id, 10) != raw {
		return 0, domain.InvalidInput("Invalid user ID")
	}
	return uint(id), nil
}

// ValidateQueryParams はログ取得の任意パラメータ from/to/limit を検証し、
// すべての違反を ", " で連結して一度に返します。
func ValidateQueryParams(q entity.LogQuery) (entity.LogFilter, error) {
	var (
		errs   []string
		filter entity.LogFilter
	)

	filter.From, errs = validateBound("from", q.From, errs)
	filter.To, errs = validateBound("to", q.To, errs)

	if q.Limit != "" {
		limit, ok := parsePositiveInt(q.Limit)
		if !ok {
			errs = append(errs, "limit must be a positive integer")
		} else {
			filter.Limit = limit
		}
	}

	// 固定長の YYYY-MM-DD は文字列比較で時系列順になる
	if filter.From != "" && filter.To != "" && filter.From > filter.To {
		errs = append(errs, "from date cannot be after to date")
	}

	if len(errs) > 0 {
		return entity.LogFilter{}, domain.InvalidInput(strings.Join(errs, ", "))
	}
	return filter, nil
}

func validateBound(field, value string, errs []string) (string, []string) {
	if value == "" {
		return "", errs
	}
	if !datePattern.MatchString(value) {
		return "", append(errs, field+" date must be in YYYY-MM-DD format")
	}
	if !isCalendarDate(value) {
		return "", append(errs, "Invalid "+field+" date provided")
	}
	return value, errs
}

func isCalendarDate(s string) bool {
	_, err := time.Parse(dateLayout, s)
	return err == nil
}

// parsePositiveInt は前後の空白を除いた先頭の符号と10進数字だけを読み取り、
// 正の整数かどうかを判定します。"30.5" は 30、"5abc" は 5 として扱います。
func parsePositiveInt(raw string) (int, bool) {
	s := strings.TrimSpace(raw)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil || n <= 0 {
		return 0, false
	}
	return n, true
}
