package response

import (
	"log"

	"github.com/gin-gonic/gin"

	"github.com/anzhiyu-c/myblog/pkg/domain/model"
	"github.com/anzhiyu-c/myblog/pkg/service/utility"
)

const flashBoxKey = "flash_box"

type flashBox struct {
	svc utility.FlashService
	id  string
}

// UseFlashBox 把当前浏览器的消息盒绑定到请求上下文，由中间件调用
func UseFlashBox(c *gin.Context, svc utility.FlashService, boxID string) {
	c.Set(flashBoxKey, &flashBox{svc: svc, id: boxID})
}

func currentFlashBox(c *gin.Context) *flashBox {
	v, ok := c.Get(flashBoxKey)
	if !ok {
		return nil
	}
	box, _ := v.(*flashBox)
	return box
}

// Flash 添加一条在下一个页面显示的提示消息
func Flash(c *gin.Context, level, text string) {
	box := currentFlashBox(c)
	if box == nil {
		return
	}
	if err := box.svc.Add(c.Request.Context(), box.id, level, text); err != nil {
		log.Printf("[Flash] 保存提示消息失败: %v", err)
	}
}

func popFlashes(c *gin.Context) []model.FlashMessage {
	box := currentFlashBox(c)
	if box == nil {
		return nil
	}
	messages, err := box.svc.Pop(c.Request.Context(), box.id)
	if err != nil {
		log.Printf("[Flash] 读取提示消息失败: %v", err)
		return nil
	}
	return messages
}
