package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// English spellings accepted for the Spanish flag names.
var taskFlagAliases = map[string]string{
	"desc":        "descripcion",
	"description": "descripcion",
	"title":       "titulo",
	"status":      "estado",
	"priority":    "prioridad",
	"due":         "vence",
}

func addTaskFlagAliases(cmds ...*cobra.Command) {
	for _, cmd := range cmds {
		setFlagAliases(cmd.Flags(), taskFlagAliases)
	}
}

func setFlagAliases(flags *pflag.FlagSet, aliases map[string]string) {
	if len(aliases) == 0 {
		return
	}

	normalize := flags.GetNormalizeFunc()
	flags.SetNormalizeFunc(func(f *pflag.FlagSet, name string) pflag.NormalizedName {
		if alias, ok := aliases[name]; ok {
			name = alias
		}
		return normalize(f, name)
	})
}
