package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// validateScene builds the scene and syncs it once with a zero step, which
// creates every body without advancing time.
func validateScene(cmd *cobra.Command, args []string) error {
	s, err := openSession(sceneArg(args), nil)
	if err != nil {
		return err
	}
	defer s.close()

	s.ps.Step(s.world, 0)

	var missing []string
	for _, name := range s.scene.Names() {
		e, _ := s.scene.Entity(name)
		if _, ok := s.ps.Body(e); ok {
			continue
		}
		if ids := s.ps.MissingComponents(s.world, e); len(ids) > 0 {
			name = fmt.Sprintf("%s (missing %v)", name, ids)
		}
		missing = append(missing, name)
	}
	if len(missing) > 0 {
		return fmt.Errorf("scene %s: no body for %s (rerun with -v for details)", s.scene.Name(), strings.Join(missing, ", "))
	}

	fmt.Println(okStyle.Render("ok") + " " + fmt.Sprintf("%s: %d entities, %d shapes", s.scene.Name(), len(s.scene.Names()), s.ps.Shapes().Len()))
	return nil
}

func listShapes(cmd *cobra.Command, args []string) error {
	s, err := openSession(sceneArg(args), nil)
	if err != nil {
		return err
	}
	defer s.close()

	rows := make([]string, 0, s.ps.Shapes().Len())
	for _, id := range s.ps.Shapes().IDs() {
		shape, err := s.ps.Shapes().Get(id)
		if err != nil {
			return err
		}
		lo, hi := shape.Bounds()
		rows = append(rows, fmt.Sprintf("%-22s %-18T %s", id, shape, labelStyle.Render(fmt.Sprintf("%s .. %s", formatVec(lo), formatVec(hi)))))
	}
	fmt.Println(panelStyle.Render(titleStyle.Render("shapes") + "\n" + strings.Join(rows, "\n")))
	return nil
}
