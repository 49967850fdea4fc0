// Package xfail 提供编译期可切换的错误上报策略。
//
// 默认模式下，公共 API 边界上产生的错误原样返回给调用方。
// 使用构建标签 xsync_silent 编译时进入静默模式：所有错误在边界处被替换为 nil，
// 调用看起来总是成功。静默模式面向无法处理错误的受限环境，调用方需自行承担
// "失败不可见"的代价。
//
// 该开关只作用于错误的上报，不改变任何操作的核心逻辑。
package xfail
