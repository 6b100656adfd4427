package main

import (
	"fmt"

	"github.com/lox/wolfgoatpig/internal/game"
	"github.com/lox/wolfgoatpig/internal/server"
)

// CourseCmd validates and prints the course defined in a config file.
type CourseCmd struct {
	Config string `kong:"arg,optional,default='wolfgoatpig.hcl',help='Path to HCL config file'"`
}

func (c *CourseCmd) Run() error {
	cfg, err := server.LoadServerConfig(c.Config)
	if err != nil {
		return err
	}

	course := cfg.GameCourse()
	if course == nil {
		course = game.DefaultCourse()
		fmt.Println("No course configured, showing the built-in default")
	}
	if err := course.Validate(); err != nil {
		return err
	}

	fmt.Printf("Course %q, %d holes\n", course.Name, course.NumHoles())
	fmt.Printf("%-6s %-5s %-7s %s\n", "Hole", "Par", "Yards", "Stroke index")
	totalPar := 0
	for _, h := range course.Holes {
		fmt.Printf("%-6d %-5d %-7d %d\n", h.Number, h.Par, h.Yards, h.StrokeIndex)
		totalPar += h.Par
	}
	fmt.Printf("Total par %d\n", totalPar)
	return nil
}
