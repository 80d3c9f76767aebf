package utils

import (
	"fmt"
	"reflect"
)

var ColumnTag = "db"

// StructTagValues returns the column names of input, descending into untagged embedded structs.
func StructTagValues(input any) []string {
	targetValue := reflect.ValueOf(input)
	if targetValue.Kind() == reflect.Ptr {
		targetValue = targetValue.Elem()
	}

	if targetValue.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	return tagValues(targetValue.Type(), nil)
}

func tagValues(targetType reflect.Type, result []string) []string {
	for i := 0; i < targetType.NumField(); i++ {
		field := targetType.Field(i)
		tagValue := field.Tag.Get(ColumnTag)

		if field.Anonymous && tagValue == "" && field.Type.Kind() == reflect.Struct {
			result = tagValues(field.Type, result)
			continue
		}

		if field.PkgPath != "" {
			continue
		}

		if tagValue == "" || tagValue == "-" {
			continue
		}

		result = append(result, tagValue)
	}

	return result
}

// PrefixColumns qualifies every column with a table alias.
func PrefixColumns(prefix string, columns []string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = fmt.Sprintf(columnPrefixFmt, prefix, c)
	}
	return out
}

func StructToMap(input any) map[string]any {
	result := make(map[string]any)

	itemValue := reflect.ValueOf(input)
	if itemValue.Kind() == reflect.Ptr {
		itemValue = itemValue.Elem()
	}

	if itemValue.Kind() != reflect.Struct {
		panic("input must be a pointer to a struct or a struct")
	}

	itemType := itemValue.Type()

	for i := 0; i < itemValue.NumField(); i++ {

		if itemType.Field(i).PkgPath != "" {
			continue
		}

		tagValue := itemType.Field(i).Tag.Get(ColumnTag)
		if tagValue == "" || tagValue == "-" {
			continue
		}

		result[tagValue] = itemValue.Field(i).Interface()

	}

	return result
}

func ErrorWrapOrNil(err error, msg string) error {
	if err == nil {
		return nil
	}

	if msg == "" {
		return err
	}

	return fmt.Errorf("%s: %w", msg, err)
}
