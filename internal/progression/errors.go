// Package progression 实现经验值、等级、连续学习天数、路线推荐与徽章判定等纯计算逻辑。
// 这里的函数不访问存储，调用方负责读取数据与持久化结果。
package progression

import "errors"

// 错误分类。具体错误通过 %w 包装这些哨兵值，调用方使用 errors.Is 判断类别。
var (
	ErrValidation    = errors.New("validation error")
	ErrNotFound      = errors.New("not found")
	ErrConflict      = errors.New("conflict")
	ErrConfiguration = errors.New("configuration error")
)
