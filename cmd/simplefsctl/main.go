// Command simplefsctl is a thin shell around the simplefs library, in the
// spirit of the teacher repo's cmd/main.go and cmd/unzipimage: a
// urfave/cli/v2 front end over functionality that otherwise has no user
// interface of its own. It is not part of the SimpleFS contract; the shell
// is explicitly out of scope for the library per the specification.
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/dargueta/simplefs/disk"
	"github.com/dargueta/simplefs/fs"
)

func main() {
	app := &cli.App{
		Name:  "simplefsctl",
		Usage: "Inspect and manipulate SimpleFS disk images",
		Commands: []*cli.Command{
			initCommand(),
			formatCommand(),
			debugCommand(),
			createCommand(),
			statCommand(),
			removeCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatalf("simplefsctl: %s", err)
	}
}

func openImage(path string, blocks uint32) (*disk.Disk, *os.File, error) {
	file, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, nil, err
	}
	return disk.Open(file, blocks), file, nil
}

func initCommand() *cli.Command {
	return &cli.Command{
		Name:      "init",
		Usage:     "Create a disk image sized to a predefined geometry and format it",
		ArgsUsage: "IMAGE_PATH",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:     "geometry",
				Usage:    fmt.Sprintf("predefined geometry slug (%s)", strings.Join(fs.GeometryNames(), ", ")),
				Required: true,
			},
		},
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 1 {
				return fmt.Errorf("expected IMAGE_PATH")
			}

			geometry, err := fs.PredefinedGeometry(c.String("geometry"))
			if err != nil {
				return err
			}

			file, err := os.OpenFile(c.Args().Get(0), os.O_RDWR|os.O_CREATE|os.O_TRUNC, 0644)
			if err != nil {
				return err
			}
			defer file.Close()

			if err := file.Truncate(int64(geometry.Blocks) * disk.BlockSize); err != nil {
				return err
			}

			d := disk.Open(file, geometry.Blocks)
			defer d.Close()

			if formatErr := fs.Format(d); formatErr != nil {
				return formatErr
			}
			fmt.Printf("initialized %s as %q geometry (%d blocks)\n", c.Args().Get(0), geometry.Slug, geometry.Blocks)
			return nil
		},
	}
}

func formatCommand() *cli.Command {
	return &cli.Command{
		Name:      "format",
		Usage:     "Write a fresh superblock and inode table onto a disk image",
		ArgsUsage: "IMAGE_PATH BLOCKS",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("expected IMAGE_PATH and BLOCKS")
			}
			blocks, err := parseUint32(c.Args().Get(1))
			if err != nil {
				return err
			}

			d, file, err := openImage(c.Args().Get(0), blocks)
			if err != nil {
				return err
			}
			defer file.Close()
			defer d.Close()

			if formatErr := fs.Format(d); formatErr != nil {
				return formatErr
			}
			fmt.Println("format complete")
			return nil
		},
	}
}

func debugCommand() *cli.Command {
	return &cli.Command{
		Name:      "debug",
		Usage:     "Print the superblock and allocated inodes of a disk image",
		ArgsUsage: "IMAGE_PATH BLOCKS",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 2 {
				return fmt.Errorf("expected IMAGE_PATH and BLOCKS")
			}
			blocks, err := parseUint32(c.Args().Get(1))
			if err != nil {
				return err
			}

			d, file, err := openImage(c.Args().Get(0), blocks)
			if err != nil {
				return err
			}
			defer file.Close()
			defer d.Close()

			return fs.Debug(d, os.Stdout)
		},
	}
}

func mountForAction(c *cli.Context) (*fs.FileSystem, *disk.Disk, *os.File, error) {
	if c.Args().Len() < 2 {
		return nil, nil, nil, fmt.Errorf("expected IMAGE_PATH BLOCKS [...]")
	}
	blocks, err := parseUint32(c.Args().Get(1))
	if err != nil {
		return nil, nil, nil, err
	}

	d, file, err := openImage(c.Args().Get(0), blocks)
	if err != nil {
		return nil, nil, nil, err
	}

	filesystem := &fs.FileSystem{}
	if mountErr := fs.Mount(filesystem, d); mountErr != nil {
		file.Close()
		return nil, nil, nil, mountErr
	}
	return filesystem, d, file, nil
}

func createCommand() *cli.Command {
	return &cli.Command{
		Name:      "create",
		Usage:     "Allocate a new, empty inode",
		ArgsUsage: "IMAGE_PATH BLOCKS",
		Action: func(c *cli.Context) error {
			filesystem, d, file, err := mountForAction(c)
			if err != nil {
				return err
			}
			defer file.Close()
			defer d.Close()
			defer fs.Unmount(filesystem)

			n := filesystem.Create()
			if n < 0 {
				return fmt.Errorf("inode table is full")
			}
			fmt.Println(n)
			return nil
		},
	}
}

func statCommand() *cli.Command {
	return &cli.Command{
		Name:      "stat",
		Usage:     "Print the size of an inode",
		ArgsUsage: "IMAGE_PATH BLOCKS INODE",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 3 {
				return fmt.Errorf("expected IMAGE_PATH BLOCKS INODE")
			}
			filesystem, d, file, err := mountForAction(c)
			if err != nil {
				return err
			}
			defer file.Close()
			defer d.Close()
			defer fs.Unmount(filesystem)

			inodeNumber, err := parseUint32(c.Args().Get(2))
			if err != nil {
				return err
			}

			size := filesystem.Stat(inodeNumber)
			if size < 0 {
				return fmt.Errorf("inode %d does not exist", inodeNumber)
			}
			fmt.Println(size)
			return nil
		},
	}
}

func removeCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Free an inode and its data blocks",
		ArgsUsage: "IMAGE_PATH BLOCKS INODE",
		Action: func(c *cli.Context) error {
			if c.Args().Len() != 3 {
				return fmt.Errorf("expected IMAGE_PATH BLOCKS INODE")
			}
			filesystem, d, file, err := mountForAction(c)
			if err != nil {
				return err
			}
			defer file.Close()
			defer d.Close()
			defer fs.Unmount(filesystem)

			inodeNumber, err := parseUint32(c.Args().Get(2))
			if err != nil {
				return err
			}

			if removeErr := filesystem.Remove(inodeNumber); removeErr != nil {
				return removeErr
			}
			return nil
		},
	}
}

func parseUint32(s string) (uint32, error) {
	var value uint32
	_, err := fmt.Sscanf(s, "%d", &value)
	if err != nil {
		return 0, fmt.Errorf("invalid number %q: %w", s, err)
	}
	return value, nil
}
