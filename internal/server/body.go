package server

import (
	"encoding/json"
	"strconv"
	"strings"
)

// Поля тела запроса принимаются любого JSON-типа и приводятся по правилам истинности JS:
// null, false, 0 и "" считаются отсутствующими.

type createPostRequest struct {
	Author  any `json:"author"`
	Content any `json:"content"`
}

type createSuggestionRequest struct {
	Author  any `json:"author"`
	Content any `json:"content"`
	IsAdmin any `json:"isAdmin"`
}

// requiredFields - приведенные author и content, которые проверяет validator.
type requiredFields struct {
	Author  string `validate:"required"`
	Content string `validate:"required"`
}

func newRequiredFields(author, content any) requiredFields {
	return requiredFields{Author: textValue(author), Content: textValue(content)}
}

// textValue возвращает строковое значение поля или "" для ложного значения.
func textValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case bool:
		if val {
			return "true"
		}
		return ""
	case json.Number:
		if f, err := val.Float64(); err == nil && f == 0 {
			return ""
		}
		return val.String()
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
}

// falseLiterals - строки, которые PostgreSQL читает как false для столбца BOOLEAN.
var falseLiterals = map[string]bool{
	"f": true, "false": true, "n": true, "no": true, "off": true, "0": true,
}

// truthy приводит isAdmin к bool. Строки читаются как литералы BOOLEAN PostgreSQL,
// любая другая непустая строка считается истинной.
func truthy(v any) bool {
	switch val := v.(type) {
	case nil:
		return false
	case bool:
		return val
	case string:
		s := strings.ToLower(strings.TrimSpace(val))
		return s != "" && !falseLiterals[s]
	case json.Number:
		f, err := val.Float64()
		return err != nil || f != 0
	default:
		return true
	}
}

// leadingInt разбирает id так же, как parseInt: пробелы, знак и ведущие цифры,
// остаток сегмента игнорируется. Без цифр возвращается 0.
func leadingInt(s string) int64 {
	s = strings.TrimLeft(s, " \t\n\r")
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	start := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == start {
		return 0
	}
	id, err := strconv.ParseInt(s[:end], 10, 64)
	if err != nil {
		return 0
	}
	return id
}
