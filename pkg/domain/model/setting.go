package model

// Setting 是 settings 表中的一条配置
type Setting struct {
	ConfigKey string
	Value     string
	Comment   string
}
