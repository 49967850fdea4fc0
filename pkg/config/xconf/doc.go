// Package xconf 基于 koanf 的配置加载器。
//
// 支持 YAML（.yaml/.yml）与 JSON（.json）。文件格式按扩展名识别，
// 字节数据需显式指定格式：
//
//	cfg, err := xconf.New("xmutexctl.yaml")
//	if err != nil {
//	    return err
//	}
//	var c Contend
//	if err := cfg.Unmarshal("contend", &c); err != nil {
//	    return err
//	}
//
// Reload 解析成功后整体替换内部 koanf 实例，失败时保留旧配置。
// Set 写入的覆盖值在 Reload 后丢失。
package xconf
