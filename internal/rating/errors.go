package rating

import (
	"errors"
	"fmt"
)

// 错误分类
// ErrReferenceData 为致命错误：参考数据缺失或损坏时引擎无法工作，直接向调用方传播。
// ErrZoneLookup / ErrRateCalculation 为行级可恢复错误：由批量编排器逐行捕获，
// 记录到结果行的诊断字段，区域标记为 "Error"，不会中断整批计算。
var (
	ErrReferenceData   = errors.New("reference data error")
	ErrZoneLookup      = errors.New("zone lookup error")
	ErrRateCalculation = errors.New("rate calculation error")
)

// RateErrorf 构造行级费率计算错误
func RateErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrRateCalculation, fmt.Sprintf(format, args...))
}

// ReferenceDataErrorf 构造致命的参考数据错误
func ReferenceDataErrorf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrReferenceData, fmt.Sprintf(format, args...))
}
