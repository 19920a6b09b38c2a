package main

import (
	"context"
	"flag"
	"log"

	"github.com/maxgerhardt/agon-vdp/server"
	"go.uber.org/zap"
)

// Buffered-protocol interpreter for the display coprocessor.
// Hosts connect over TCP and speak the buffered command family:
// bufferId; command, args...

func main() {
	listenAddr := flag.String("listen", ":7700", "command feed listen address")
	apiAddr := flag.String("api", ":7780", "buffer inspection api address")
	flag.Parse()

	l, err := zap.NewDevelopment()
	if err != nil {
		log.Fatalf("%s", err)
	}
	zap.ReplaceGlobals(l)

	srv, err := server.NewServer(server.ServerOpts{
		ListenerAddr:    *listenAddr,
		ApiListenerAddr: *apiAddr,
		Logger:          l,
	})
	if err != nil {
		l.Fatal(err.Error())
	}

	err = srv.Start(context.Background())
	if err != nil {
		l.Fatal(err.Error())
	}
}
