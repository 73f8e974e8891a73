package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Access es el archivo de permisos: IDs de roles y canales, nunca nombres.
type Access struct {
	HomeGuildID       string   `yaml:"home_guild_id"`
	OwnerID           string   `yaml:"owner_id"`
	AllowedChannelIDs []string `yaml:"allowed_channel_ids"`
	StaffRoleIDs      []string `yaml:"staff_role_ids"`
	CaptainRoleIDs    []string `yaml:"captain_role_ids"`
	// roles extra que cuentan como "miembro de algún roster" además de los de cada equipo
	MemberRoleIDs []string `yaml:"member_role_ids"`
}

// LoadAccess lee el yaml. Si no existe devuelve una config vacía (sólo pasan owner y canales permitidos).
func LoadAccess(path string) (Access, error) {
	var acc Access
	if path == "" {
		return acc, nil
	}
	b, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return acc, nil
	}
	if err != nil {
		return acc, fmt.Errorf("access config: %w", err)
	}
	if err := yaml.Unmarshal(b, &acc); err != nil {
		return acc, fmt.Errorf("access config %s: %w", path, err)
	}
	acc.AllowedChannelIDs = clean(acc.AllowedChannelIDs)
	acc.StaffRoleIDs = clean(acc.StaffRoleIDs)
	acc.CaptainRoleIDs = clean(acc.CaptainRoleIDs)
	acc.MemberRoleIDs = clean(acc.MemberRoleIDs)
	return acc, nil
}

func clean(ids []string) []string {
	out := ids[:0]
	for _, id := range ids {
		if id = strings.TrimSpace(id); id != "" {
			out = append(out, id)
		}
	}
	return out
}
