package commands

import (
	"fmt"

	"github.com/disgoorg/disgo/handler"

	"github.com/okubot/bookclub/bookclub"
	"github.com/okubot/bookclub/bookclub/utils"
)

func VersionHandler(b *bookclub.Bot) handler.CommandHandler {
	return func(e *handler.CommandEvent) error {
		return utils.EH.CreateInfo(e, fmt.Sprintf("BookClub `%s` (commit `%s`)", b.Version, b.Commit))
	}
}
