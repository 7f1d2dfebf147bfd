package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"syscall"

	"helloworld-sol/internal/config"
	"helloworld-sol/internal/logic/invoker"
	"helloworld-sol/internal/svc"
	"helloworld-sol/pkg/logger"

	"github.com/zeromicro/go-zero/core/conf"
	"github.com/zeromicro/go-zero/core/logx"
)

var configFile = flag.String("f", "etc/invoker.yaml", "the config file")

func main() {
	defer func() {
		if r := recover(); r != nil {
			logx.Errorf("panic: %+v\nstack: %s", r, debug.Stack())
			os.Exit(1)
		}
	}()

	flag.Parse()

	var c config.InvokerConfig
	conf.MustLoad(*configFile, &c)

	if err := logger.InitLogger(c.LogConf.ToLogOption()); err != nil {
		panic(err)
	}
	defer logger.Sync()

	serviceContext, err := svc.NewInvokerServiceContext(c)
	if err != nil {
		logger.Errorf("[Invoker] 初始化失败: %v", err)
		os.Exit(1)
	}

	// Ctrl-C / SIGTERM 中断确认轮询
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	sig, err := invoker.New(serviceContext).Run(ctx)
	if err != nil {
		logger.Errorf("[Invoker] 调用失败: %v", err)
		os.Exit(1)
	}

	fmt.Println(sig)
}
