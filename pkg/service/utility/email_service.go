// pkg/service/utility/email_service.go
package utility

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"html/template"
	"log"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/anzhiyu-c/myblog/pkg/config"
)

// EmailService 定义了发送业务邮件的接口
type EmailService interface {
	// SendPasswordResetEmail 发送重置密码邮件，resetURL 是完整的确认链接
	SendPasswordResetEmail(ctx context.Context, toEmail, username, resetURL string) error
}

// Mailer 负责把已渲染好的邮件投递出去
type Mailer interface {
	Send(to, subject, body string) error
}

// emailService 是 EmailService 接口的实现
type emailService struct {
	cfg    *config.Config
	mailer Mailer
}

// NewEmailService 是 emailService 的构造函数。
// 未配置 SMTP 服务器时，邮件内容只写入日志。
func NewEmailService(cfg *config.Config) EmailService {
	var mailer Mailer = &logMailer{}
	if cfg.GetString(config.KeySmtpHost) != "" {
		mailer = &smtpMailer{cfg: cfg}
	} else {
		log.Println("⚠️  SMTP 未配置，邮件内容将输出到日志")
	}
	return &emailService{cfg: cfg, mailer: mailer}
}

// NewEmailServiceWithMailer 使用指定的投递方式，主要用于测试
func NewEmailServiceWithMailer(cfg *config.Config, mailer Mailer) EmailService {
	return &emailService{cfg: cfg, mailer: mailer}
}

const passwordResetSubjectTpl = `{{.SITE_NAME}} 的密码重置`

const passwordResetBodyTpl = `<p>{{.USERNAME}}，你好！</p>
<p>你收到这封邮件，是因为有人为你在 <a href="{{.SITE_URL}}">{{.SITE_NAME}}</a> 上的账户申请了密码重置。</p>
<p>请点击下面的链接设置新密码：</p>
<p><a href="{{.RESET_URL}}">{{.RESET_URL}}</a></p>
<p>如果这不是你本人的操作，请忽略这封邮件，你的密码不会改变。</p>
<p>申请时间：{{.TIME}}</p>`

func (s *emailService) SendPasswordResetEmail(ctx context.Context, toEmail, username, resetURL string) error {
	siteName := s.cfg.GetString(config.KeySmtpSenderName)
	if siteName == "" {
		siteName = "MyBlog"
	}
	data := map[string]interface{}{
		"SITE_NAME": siteName,
		"SITE_URL":  strings.TrimRight(s.cfg.GetString(config.KeySiteURL), "/"),
		"USERNAME":  username,
		"RESET_URL": resetURL,
		"TIME":      time.Now().Format("2006-01-02 15:04:05"),
	}

	subject, err := renderTemplate(passwordResetSubjectTpl, data)
	if err != nil {
		return fmt.Errorf("渲染重置密码邮件主题失败: %w", err)
	}
	body, err := renderTemplate(passwordResetBodyTpl, data)
	if err != nil {
		return fmt.Errorf("渲染重置密码邮件正文失败: %w", err)
	}

	if err := s.mailer.Send(toEmail, subject, body); err != nil {
		return fmt.Errorf("发送重置密码邮件失败: %w", err)
	}
	log.Printf("[INFO] 重置密码邮件已发送到: %s", toEmail)
	return nil
}

// renderTemplate 是一个渲染 Go 模板的辅助函数
func renderTemplate(tplStr string, data interface{}) (string, error) {
	tpl, err := template.New("email").Parse(tplStr)
	if err != nil {
		return "", err
	}
	var buf bytes.Buffer
	if err := tpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// logMailer 只把邮件写入日志，适合本地开发
type logMailer struct{}

func (m *logMailer) Send(to, subject, body string) error {
	log.Printf("[邮件] To: %s\nSubject: %s\n\n%s", to, subject, body)
	return nil
}

// smtpMailer 通过配置的 SMTP 服务器投递邮件
type smtpMailer struct {
	cfg *config.Config
}

func (m *smtpMailer) Send(to, subject, body string) error {
	host := m.cfg.GetString(config.KeySmtpHost)
	portStr := m.cfg.GetString(config.KeySmtpPort)
	username := m.cfg.GetString(config.KeySmtpUsername)
	password := m.cfg.GetString(config.KeySmtpPassword)
	senderName := m.cfg.GetString(config.KeySmtpSenderName)
	senderEmail := m.cfg.GetString(config.KeySmtpSenderEmail)
	forceSSL := m.cfg.GetBool(config.KeySmtpForceSSL)

	if _, err := strconv.Atoi(portStr); err != nil {
		return fmt.Errorf("SMTP端口配置无效 '%s': %w", portStr, err)
	}

	var messageBuilder strings.Builder
	messageBuilder.WriteString(fmt.Sprintf("From: %s <%s>\r\n", senderName, senderEmail))
	messageBuilder.WriteString(fmt.Sprintf("To: %s\r\n", to))
	messageBuilder.WriteString(fmt.Sprintf("Subject: %s\r\n", subject))
	messageBuilder.WriteString("MIME-Version: 1.0\r\n")
	messageBuilder.WriteString("Content-Type: text/html; charset=UTF-8\r\n")
	messageBuilder.WriteString("\r\n")
	messageBuilder.WriteString(body)
	message := []byte(messageBuilder.String())

	auth := smtp.PlainAuth("", username, password, host)
	addr := net.JoinHostPort(host, portStr)

	if forceSSL {
		return sendMailSSL(addr, auth, senderEmail, []string{to}, message)
	}
	return sendMailSTARTTLS(addr, host, auth, senderEmail, to, message)
}

// sendMailSTARTTLS 使用明文连接，服务器支持时升级为 TLS
func sendMailSTARTTLS(addr, host string, auth smtp.Auth, from, to string, message []byte) error {
	conn, err := net.DialTimeout("tcp", addr, 15*time.Second)
	if err != nil {
		return fmt.Errorf("[STARTTLS] 拨号失败: %w", err)
	}
	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("[STARTTLS] 创建SMTP客户端失败: %w", err)
	}
	defer c.Close()

	if ok, _ := c.Extension("STARTTLS"); ok {
		if err = c.StartTLS(&tls.Config{ServerName: host, MinVersion: tls.VersionTLS12}); err != nil {
			return fmt.Errorf("[STARTTLS] 升级 TLS 失败: %w", err)
		}
	}
	if err = c.Auth(auth); err != nil {
		return fmt.Errorf("[STARTTLS] SMTP认证失败: %w", err)
	}
	return writeMessage(c, from, []string{to}, message)
}

// sendMailSSL 是用于处理直接SSL连接的辅助函数
func sendMailSSL(addr string, auth smtp.Auth, from string, to []string, message []byte) error {
	host, port, _ := net.SplitHostPort(addr)
	tlsConfig := &tls.Config{
		ServerName: host,
		MinVersion: tls.VersionTLS12,
	}

	log.Printf("[邮件发送] 尝试通过SSL连接到 %s:%s", host, port)
	conn, err := tls.DialWithDialer(&net.Dialer{Timeout: 15 * time.Second}, "tcp", addr, tlsConfig)
	if err != nil {
		return fmt.Errorf("TLS拨号失败 (请检查端口是否正确，SSL通常使用465端口): %w", err)
	}
	defer conn.Close()
	client, err := smtp.NewClient(conn, host)
	if err != nil {
		return fmt.Errorf("创建SMTP客户端失败: %w", err)
	}
	defer client.Close()
	if err = client.Auth(auth); err != nil {
		return fmt.Errorf("SMTP认证失败: %w", err)
	}
	return writeMessage(client, from, to, message)
}

func writeMessage(c *smtp.Client, from string, to []string, message []byte) error {
	if err := c.Mail(from); err != nil {
		return fmt.Errorf("设置发件人失败: %w", err)
	}
	for _, rcpt := range to {
		if err := c.Rcpt(rcpt); err != nil {
			return fmt.Errorf("设置收件人失败: %w", err)
		}
	}
	w, err := c.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(message); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}
	if err := c.Quit(); err != nil {
		log.Printf("警告: SMTP Quit 执行失败: %v。这通常不影响邮件发送。", err)
	}
	return nil
}
