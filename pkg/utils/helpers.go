package utils

import (
	"database/sql"
	"strconv"
)

func NullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func NullTimeToEmptyString(nt sql.NullTime) string {
	if nt.Valid {
		return nt.Time.Local().Format("2006-01-02 15:04:05")
	}
	return ""
}

func StringToNullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}

func Ptr[T any](v T) *T { return &v }

// ParseLimitOffset разбирает limit/offset из query-параметров с безопасными
// значениями по умолчанию.
func ParseLimitOffset(limitStr, offsetStr string) (uint64, uint64) {
	limit, _ := strconv.Atoi(limitStr)
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(offsetStr)
	if offset < 0 {
		offset = 0
	}
	return uint64(limit), uint64(offset)
}
