package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	tu "github.com/arjunmehta/pagetree/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start a debug HTTP server that dumps each page's expanded tree",
	Long: `Start an HTTP server that, for each request path, loads the matching
page as an entry file and writes out the files it read, any diagnostics,
and the fully expanded tree. It does not render anything.

Config file options (serve section):
  serve:
    addr: ":7777"
    root: ./pages
    static:
      - /css:./styles

Examples:
  pagetree serve --root ./pages
  pagetree serve --addr :8080 --root ./pages --static /css:./styles`,
	Run: func(cmd *cobra.Command, args []string) {
		addr := viper.GetString("serve.addr")
		root := viper.GetString("serve.root")
		staticDirs := viper.GetStringSlice("serve.static")

		s := tu.DebugServer{
			Root:       root,
			StaticDirs: staticDirs,
		}
		s.Serve(nil, addr)
	},
}

func init() {
	serveCmd.Flags().StringP("addr", "a", ":7777", "Address where the HTTP server will run")
	serveCmd.Flags().StringP("root", "r", ".", "Document root every page path is confined to")
	serveCmd.Flags().StringArrayP("static", "s", nil, "Static directories in format <http_prefix>:<local_folder> (can be repeated)")

	viper.BindPFlag("serve.addr", serveCmd.Flags().Lookup("addr"))
	viper.BindPFlag("serve.root", serveCmd.Flags().Lookup("root"))
	viper.BindPFlag("serve.static", serveCmd.Flags().Lookup("static"))

	viper.SetDefault("serve.addr", ":7777")
	viper.SetDefault("serve.root", ".")

	rootCmd.AddCommand(serveCmd)
}
