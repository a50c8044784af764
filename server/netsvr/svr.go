package netsvr

import (
	"net/http"

	"github.com/kg112500/dynam-hikone/server/app"
)

// NetSvr 封裝「路由行為 + 服務啟停」的抽象介面。
//   - 只暴露給最外層組裝端，其他層只面向 NetRouter。
//   - 目的是依賴反轉：換 http 框架時只要補一個實作。
//   - 現行實作走標準庫 net/http + chi，fasthttp/fiber 這類非標準介面不在範圍內。
//   - NetSvr 同時實作 app.Component，可直接交給 app.App 管理生命週期。
type NetSvr interface {
	NetRouter
	app.Component
}

// NetRouter 只有路由行為，handler / 子模組拿到它掛路由，
// 但看不到 Run / Shutdown，不會被誤用來控制 server 啟停。
type NetRouter interface {
	// middleware
	Use(middleware func(http.Handler) http.Handler)

	// 註冊路由
	Get(path string, h http.HandlerFunc)
	Post(path string, h http.HandlerFunc)
	Put(path string, h http.HandlerFunc)
	Delete(path string, h http.HandlerFunc)

	// 群組路由。回呼只拿 NetRouter
	Group(path string, fn func(NetRouter))
}
