//go:build !xsync_silent

package xfail

// Silent 表示当前是否编译为静默模式。
const Silent = false

// Report 在 API 边界处上报错误。默认模式下原样返回。
func Report(err error) error {
	return err
}
