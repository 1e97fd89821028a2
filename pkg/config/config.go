/*
 * @Description: 统一配置管理 (conf.ini 作为默认值，环境变量覆盖)
 */
package config

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-ini/ini"
	"github.com/spf13/viper"
)

// DefaultFilePath 是默认配置文件的位置
const DefaultFilePath = "data/conf.ini"

// 环境变量前缀，例如 MYBLOG_DATABASE_HOST
const envPrefix = "MYBLOG"

// 定义所有已知的配置键
var allKeys = []string{
	KeyServerPort, KeyServerDebug, KeySiteURL, KeySecret, KeySessionDays,
	KeyDBType, KeyDBHost, KeyDBPort, KeyDBUser, KeyDBPassword, KeyDBName, KeyDBDebug,
	KeyRedisAddr, KeyRedisPassword, KeyRedisDB,
	KeySmtpHost, KeySmtpPort, KeySmtpUsername, KeySmtpPassword, KeySmtpSenderName, KeySmtpSenderEmail, KeySmtpForceSSL,
	KeyCaptchaEnable,
}

const (
	KeyServerPort  = "System.Port"
	KeyServerDebug = "System.Debug"
	KeySiteURL     = "System.SiteURL"
	KeySecret      = "System.Secret"
	KeySessionDays = "System.SessionDays"

	KeyDBType     = "Database.Type"
	KeyDBHost     = "Database.Host"
	KeyDBPort     = "Database.Port"
	KeyDBUser     = "Database.User"
	KeyDBPassword = "Database.Password"
	KeyDBName     = "Database.Name"
	KeyDBDebug    = "Database.Debug"

	KeyRedisAddr     = "Redis.Addr"
	KeyRedisPassword = "Redis.Password"
	KeyRedisDB       = "Redis.DB"

	KeySmtpHost        = "Smtp.Host"
	KeySmtpPort        = "Smtp.Port"
	KeySmtpUsername    = "Smtp.Username"
	KeySmtpPassword    = "Smtp.Password"
	KeySmtpSenderName  = "Smtp.SenderName"
	KeySmtpSenderEmail = "Smtp.SenderEmail"
	KeySmtpForceSSL    = "Smtp.ForceSSL"

	KeyCaptchaEnable = "Captcha.Enable"
)

type Config struct {
	vp *viper.Viper
}

// NewConfig 从默认路径加载配置
func NewConfig() (*Config, error) {
	return NewConfigWithPath(DefaultFilePath)
}

// NewConfigWithPath 手动加载配置：先读 ini 文件，再用环境变量覆盖
func NewConfigWithPath(filePath string) (*Config, error) {
	vp := viper.New()

	// --- 步骤 1: 使用 go-ini 从文件加载配置 (作为默认值) ---
	iniCfg, err := ini.Load(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("提示: 未找到 %s，将创建默认配置文件。", filePath)
			if err := createDefaultConfigFile(filePath); err != nil {
				log.Printf("警告: 创建默认配置文件失败: %v，将仅依赖环境变量或内部默认值。", err)
			} else {
				iniCfg, err = ini.Load(filePath)
				if err != nil {
					log.Printf("警告: 重新加载配置文件失败: %v", err)
				}
			}
		} else {
			return nil, fmt.Errorf("错误: 解析配置文件 '%s' 失败: %w", filePath, err)
		}
	}

	if iniCfg != nil {
		for _, section := range iniCfg.Sections() {
			for _, key := range section.Keys() {
				viperKey := fmt.Sprintf("%s.%s", section.Name(), key.Name())
				if section.Name() == ini.DefaultSection {
					viperKey = key.Name()
				}
				vp.Set(viperKey, key.Value())
			}
		}
		log.Printf("从 %s 文件加载了默认配置。", filePath)
	}

	// --- 步骤 2: 手动检查并覆盖环境变量 ---
	envReplacer := strings.NewReplacer(".", "_")
	for _, key := range allKeys {
		envVarName := fmt.Sprintf("%s_%s", envPrefix, envReplacer.Replace(strings.ToUpper(key)))
		if value, found := os.LookupEnv(envVarName); found {
			vp.Set(key, value)
			log.Printf("发现环境变量: %s, 已覆盖配置 '%s'。", envVarName, key)
		}
	}

	log.Println("✅ 配置加载器初始化完成。")
	return &Config{vp: vp}, nil
}

func (c *Config) GetString(key string) string {
	return c.vp.GetString(key)
}

func (c *Config) GetInt(key string) int {
	return c.vp.GetInt(key)
}

func (c *Config) GetBool(key string) bool {
	return c.vp.GetBool(key)
}

// Set 覆盖单个配置项，主要用于测试和启动时注入生成的值
func (c *Config) Set(key string, value interface{}) {
	c.vp.Set(key, value)
}

// createDefaultConfigFile 创建默认的配置文件
func createDefaultConfigFile(filePath string) error {
	dir := filepath.Dir(filePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("创建目录失败: %w", err)
	}

	// 默认使用 SQLite
	defaultConfig := `[System]
Port = 8000
Debug = false
SiteURL = http://127.0.0.1:8000
# 留空时首次启动会自动生成并保存到数据库
Secret =
SessionDays = 14

[Database]
Type = sqlite
Name = myblog.db
Debug = false

# Redis 配置（可选），留空 Addr 时使用内存存储
[Redis]
Addr =
Password =
DB = 0

# 密码重置邮件使用的 SMTP 服务
[Smtp]
Host =
Port = 465
Username =
Password =
SenderName = MyBlog
SenderEmail =
ForceSSL = true

[Captcha]
Enable = false
`
	if err := os.WriteFile(filePath, []byte(defaultConfig), 0644); err != nil {
		return fmt.Errorf("写入配置文件失败: %w", err)
	}
	return nil
}
