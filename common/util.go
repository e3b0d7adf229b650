package common

import (
	"reflect"
	"strings"
)

// HasNil 检查values中是否有nil值,包括值为nil的指针、map、slice、func、interface
func HasNil(values ...interface{}) bool {
	for _, v := range values {
		if v == nil {
			return true
		}
		val := reflect.ValueOf(v)
		switch val.Kind() {
		case reflect.Ptr, reflect.Map, reflect.Slice, reflect.Func, reflect.Interface, reflect.Chan:
			if val.IsNil() {
				return true
			}
		}
	}
	return false
}

// IsEmpty 检查strs中是否有空字符串(去掉空白后)
func IsEmpty(strs ...string) bool {
	for _, s := range strs {
		if strings.TrimSpace(s) == "" {
			return true
		}
	}
	return false
}
