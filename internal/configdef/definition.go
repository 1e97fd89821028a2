package configdef

import (
	"github.com/anzhiyu-c/myblog/internal/pkg/utils"
	"github.com/anzhiyu-c/myblog/pkg/constant"
	"github.com/anzhiyu-c/myblog/pkg/idgen"
)

// Definition 定义了 settings 表中单个配置项的属性。
// Generate 在首次启动、数据库中不存在该项时调用。
type Definition struct {
	Key      string
	Comment  string
	Generate func() (string, error)
}

// AllSettings 是需要在首次启动时写入数据库的全部配置项
var AllSettings = []Definition{
	{
		Key:      constant.SettingKeySecret,
		Comment:  "会话和密码重置令牌的签名密钥",
		Generate: func() (string, error) { return utils.GenerateRandomString(32) },
	},
	{
		Key:      constant.SettingKeyIDSeed,
		Comment:  "公共用户ID编码种子，修改后已发出的重置链接全部失效",
		Generate: idgen.GenerateRandomSeed,
	},
}
