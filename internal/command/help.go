package command

// helpText is the reply to the help command. One whisper, many lines.
const helpText = `Available commands:
  create <name> [password] [-t] [-g] [-a|-i]  create a game (-t teams, -g guessing, -a ambassador deck, -i inquisitor deck)
  join <name> [password]                      join a game
  start                                       start the game you created
  list                                        list open games
  status                                      see the state of your game and your hand
  do <action> [target] [influence]            take your turn action
  challenge                                   challenge the claimed influence
  counter [with] <influence>                  counter the pending action
  accept                                      let the pending action stand
  select <number...>                          pick cards when asked to
  forfeit                                     leave the game
Turn actions: income, foreign_aid, tax, steal, assassinate, exchange, examine, coup, convert, embezzle.`
