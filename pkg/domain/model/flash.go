package model

// FlashMessage 是一条只显示一次的提示消息
type FlashMessage struct {
	Level string `json:"level"`
	Text  string `json:"text"`
}
