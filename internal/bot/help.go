package bot

const startText = "Use /help for a list of commands."

const helpText = "/covid19india - Displays stats of all states\n" +
	"/covid19india <state> - Displays stats of a <state>\n" +
	"/statecodes - Displays codes of states that can be used as <state>\n" +
	"/mohfw - Displays data from MOHFW database\n" +
	"/comparemohfw - Displays the diff. in cases reported by MOHFW database\n" +
	"(-ve) means MOHFW reports lesser cases and\n" +
	"(+ve) means MOHFW reports higher cases than covid19india.org\n" +
	"/ndma - Displays data from NDMA database\n" +
	"/comparendma - Displays the diff. in cases reported by NDMA database\n" +
	"/advanced - Lists commands and options for advanced usage"

const advancedText = "/recon - for value checks in data fields.\n" +
	"/covid19india <confirmed|active|recovered|deceased> - orders all states by that count\n" +
	"Use the keyword 'api' or 'site' after the commands " +
	"/mohfw and /comparemohfw for retrieving data directly " +
	"from the MOHFW website rather than the API provided by MOHFW\n"

const unknownText = "Unknown command. Use /help for a list of commands."

const ndmaSiteText = "NDMA site data is not supported. Use /ndma without a keyword."
