package main

import (
	"flag"
	"fmt"
	"log"

	"github.com/anzhiyu-c/myblog/cmd/server"
	"github.com/anzhiyu-c/myblog/internal/pkg/version"
)

func main() {
	showVersion := flag.Bool("version", false, "打印版本信息后退出")
	flag.Parse()
	if *showVersion {
		fmt.Println(version.GetVersionString())
		return
	}

	app, err := server.NewApp()
	if err != nil {
		log.Fatalf("应用初始化失败: %v", err)
	}
	defer app.Stop()

	app.PrintBanner()

	if err := app.Run(); err != nil {
		log.Fatalf("应用启动失败: %v", err)
	}
}
