package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"lensgallery/internal/catalog"
	"lensgallery/internal/config"
	"lensgallery/internal/display"
	"lensgallery/internal/sampler"
	"lensgallery/internal/server"
	"lensgallery/internal/service"
	"lensgallery/internal/titles"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

const version = "0.3.0"

var (
	cfg     config.Config
	svc     *service.Service
	closer  io.Closer
	gallery *catalog.Catalog
)

// ServiceFactory opens the title store and builds the service for one command run.
type ServiceFactory func(cfg config.Config, logger *slog.Logger) (*service.Service, io.Closer, error)

// NewRootCmd creates the root command. getService is injected so tests can
// point the CLI at throwaway databases.
func NewRootCmd(getService ServiceFactory) *cobra.Command {
	var (
		dbPathFlag   string
		dirFlag      string
		manifestFlag string
		folderFlag   string
		verboseFlag  bool
	)

	rootCmd := &cobra.Command{
		Use:           "lensgallery-cli",
		Short:         "lensgallery - rotating photo gallery server and catalog tools",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// PostRun is skipped when a command fails; release what that run opened.
			closeService()

			level := slog.LevelInfo
			if verboseFlag {
				level = slog.LevelDebug
			}
			logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
			slog.SetDefault(logger)

			var err error
			cfg, err = config.Load()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("dbpath") {
				cfg.DBPath = dbPathFlag
			}
			if cmd.Flags().Changed("dir") {
				cfg.Dir = dirFlag
			}
			if cmd.Flags().Changed("manifest") {
				cfg.Manifest = manifestFlag
			}
			if cmd.Flags().Changed("folder") {
				cfg.Folder = folderFlag
			}

			svc, closer, err = getService(cfg, logger)
			if err != nil {
				return fmt.Errorf("failed to initialize service: %w", err)
			}
			gallery, err = svc.LoadCatalog(cfg)
			if err != nil {
				return fmt.Errorf("failed to load catalog: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			closeService()
		},
	}

	rootCmd.AddCommand(newServeCmd(), newCatalogCmd(), newSampleCmd(), newTitleCmd(), newInfoCmd())

	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "dbpath", "", "Directory of the title database")
	rootCmd.PersistentFlags().StringVar(&dirFlag, "dir", "", "Directory holding the gallery images")
	rootCmd.PersistentFlags().StringVar(&manifestFlag, "manifest", "", "YAML catalog manifest")
	rootCmd.PersistentFlags().StringVar(&folderFlag, "folder", catalog.DefaultFolder, "Display path prefix of the images")
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable debug logging")

	return rootCmd
}

func newServeCmd() *cobra.Command {
	var (
		addr     string
		initial  int
		interval time.Duration
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve gallery views over HTTP",
		Long: `Starts the gallery API. Each visitor creates a view with POST /api/views and
drives it with the expand, scroll and lightbox endpoints. Views that are not
read for GALLERY_VIEW_TTL are torn down.`,
		Example: `  # Serve the images in ./photos on port 3000
  lensgallery-cli serve --dir ./photos --addr :3000`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			if cmd.Flags().Changed("initial") {
				cfg.InitialDisplay = initial
			}
			if cmd.Flags().Changed("interval") {
				cfg.RotationInterval = interval
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			views := service.NewRegistry(gallery, service.ViewOptions{
				InitialDisplay:   cfg.InitialDisplay,
				RotationInterval: cfg.RotationInterval,
				LoadThreshold:    cfg.LoadThreshold,
				LoadBatch:        cfg.LoadBatch,
			}, service.Limits{IdleTTL: cfg.ViewTTL, MaxViews: cfg.MaxViews}, slog.Default())
			defer views.CloseAll()
			go views.RunReaper(cmd.Context())

			h := server.New(cmd.Context(), views, service.NewImageService(cfg.Dir), cfg.Dir)
			srv := &http.Server{
				Addr:              cfg.Addr,
				Handler:           h.Routes(),
				ReadHeaderTimeout: 10 * time.Second,
			}
			return server.ListenAndServe(cmd.Context(), srv)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8888", "Address to listen on")
	cmd.Flags().IntVar(&initial, "initial", display.DefaultInitialSize, "Images shown before expanding")
	cmd.Flags().DurationVar(&interval, "interval", 10*time.Second, "Rotation interval")
	return cmd
}

func newCatalogCmd() *cobra.Command {
	var yamlOut bool
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "List the catalog in order",
		RunE: func(cmd *cobra.Command, args []string) error {
			if yamlOut {
				out, err := gallery.Marshal()
				if err != nil {
					return err
				}
				cmd.Print(string(out))
				return nil
			}
			if gallery.Len() == 0 {
				cmd.Println("Catalog is empty.")
				return nil
			}
			for i, img := range gallery.Images() {
				if img.Title != img.Name {
					cmd.Printf("%3d  %s  (%s)\n", i+1, img.Path, img.Title)
				} else {
					cmd.Printf("%3d  %s\n", i+1, img.Path)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&yamlOut, "yaml", false, "Print the catalog as a YAML manifest")
	return cmd
}

func newSampleCmd() *cobra.Command {
	var (
		size int
		seed int64
	)
	cmd := &cobra.Command{
		Use:   "sample",
		Short: "Print an initial display set as a fresh visitor would see it",
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("size") {
				size = cfg.InitialDisplay
			}
			s := sampler.NewRandom()
			if cmd.Flags().Changed("seed") {
				s = sampler.New(seed)
			}
			c := display.NewController(gallery, size, s)
			c.Initialize()
			for _, img := range c.Sequence() {
				cmd.Println(img.Path)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&size, "size", "n", display.DefaultInitialSize, "Number of images to sample")
	cmd.Flags().Int64Var(&seed, "seed", 0, "Seed for a reproducible sample")
	return cmd
}

func newTitleCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "title",
		Short: "Manage display titles",
	}

	setCmd := &cobra.Command{
		Use:   "set [image] [title...]",
		Short: "Set the display title of an image",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			title := strings.Join(args[1:], " ")
			img, err := svc.SetTitle(gallery, args[0], title)
			if err != nil {
				return err
			}
			cmd.Printf("Set title of %s to '%s'\n", img.Path, title)
			return nil
		},
	}

	getCmd := &cobra.Command{
		Use:   "get [image]",
		Short: "Show the display title of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, ok := gallery.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%s: %w", args[0], service.ErrImageNotInCatalog)
			}
			cmd.Println(img.Title)
			return nil
		},
	}

	removeCmd := &cobra.Command{
		Use:   "remove [image]",
		Short: "Remove the display title of an image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, err := svc.RemoveTitle(gallery, args[0])
			if err != nil {
				return err
			}
			cmd.Printf("Removed title of %s\n", img.Path)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List stored titles",
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := svc.ListTitles()
			if err != nil {
				return err
			}
			if len(entries) == 0 {
				cmd.Println("No titles stored.")
				return nil
			}
			for _, e := range entries {
				cmd.Printf("%s\t%s\n", e.Path, e.Title)
			}
			return nil
		},
	}

	pruneCmd := &cobra.Command{
		Use:   "prune",
		Short: "Remove titles of images that are no longer in the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := svc.PruneTitles(gallery)
			if err != nil {
				return err
			}
			cmd.Printf("Removed %d stale title(s)\n", n)
			return nil
		},
	}

	cmd.AddCommand(setCmd, getCmd, removeCmd, listCmd, pruneCmd)
	return cmd
}

func newInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "info [image]",
		Short: "Show size and EXIF metadata of a catalog image",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			img, ok := gallery.Lookup(args[0])
			if !ok {
				return fmt.Errorf("%s: %w", args[0], service.ErrImageNotInCatalog)
			}
			info, err := service.NewImageService(cfg.Dir).GetImageInfo(img)
			if err != nil {
				return err
			}
			cmd.Printf("%s\n", img.Path)
			cmd.Printf("  Title:  %s\n", img.Title)
			cmd.Printf("  Size:   %dx%d, %d bytes\n", info.Width, info.Height, info.Size)
			cmd.Printf("  Date:   %s\n", info.ModTime.Format("2006-01-02 15:04"))
			for _, field := range []string{"DateTime", "Make", "Model", "ExposureTime", "FNumber", "ISOSpeedRatings", "FocalLength"} {
				if v, ok := info.EXIFData[field]; ok {
					cmd.Printf("  %-12s %s\n", field+":", v)
				}
			}
			return nil
		},
	}
}

func closeService() {
	if closer != nil {
		if err := closer.Close(); err != nil {
			slog.Error("Error closing title database", "err", err)
		}
		closer = nil
	}
}

func openService(cfg config.Config, logger *slog.Logger) (*service.Service, io.Closer, error) {
	tdb, err := titles.NewTitleDB(cfg.DBPath, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open title DB: %w", err)
	}
	return service.NewService(tdb, logger), tdb, nil
}

func main() {
	root := NewRootCmd(openService)
	err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt),
	)
	closeService()
	if err != nil {
		os.Exit(1)
	}
}
