// Copyright (c) 2012-2014 Jeremy Latt
// Copyright (c) 2016-2017 Daniel Oaks <daniel@danieloaks.net>
// released under the MIT license

package irc

// Numerics that change session state.
const (
	RPL_WELCOME        = "001"
	RPL_ISUPPORT       = "005"
	RPL_AWAY           = "301"
	RPL_CHANNELMODEIS  = "324"
	RPL_NOTOPIC        = "331"
	RPL_TOPIC          = "332"
	RPL_EXCEPTLIST     = "348"
	RPL_NAMREPLY       = "353"
	RPL_ENDOFNAMES     = "366"
	RPL_BANLIST        = "367"
	RPL_MOTD           = "372"
	RPL_MOTDSTART      = "375"
	RPL_ENDOFMOTD      = "376"
	ERR_NOMOTD         = "422"
	RPL_LOGGEDIN       = "900"
	RPL_SASLSUCCESS    = "903"
	ERR_SASLFAIL       = "904"
	ERR_SASLTOOLONG    = "905"
	ERR_SASLABORTED    = "906"
	ERR_SASLALREADY    = "907"
	RPL_SASLMECHS      = "908"
	ERR_NICKNAMEINUSE  = "433"
	ERR_NOSUCHCHANNEL  = "403"
	ERR_NEEDMOREPARAMS = "461"
)

// numericNames maps numerics to the names used for them in Misc events.
var numericNames = map[string]string{
	"001": "RPL_WELCOME",
	"002": "RPL_YOURHOST",
	"003": "RPL_CREATED",
	"004": "RPL_MYINFO",
	"005": "RPL_ISUPPORT",
	"010": "RPL_BOUNCE",
	"200": "RPL_TRACELINK",
	"211": "RPL_STATSLINKINFO",
	"219": "RPL_ENDOFSTATS",
	"221": "RPL_UMODEIS",
	"242": "RPL_STATSUPTIME",
	"250": "RPL_STATSCONN",
	"251": "RPL_LUSERCLIENT",
	"252": "RPL_LUSEROP",
	"253": "RPL_LUSERUNKNOWN",
	"254": "RPL_LUSERCHANNELS",
	"255": "RPL_LUSERME",
	"256": "RPL_ADMINME",
	"257": "RPL_ADMINLOC1",
	"258": "RPL_ADMINLOC2",
	"259": "RPL_ADMINEMAIL",
	"263": "RPL_TRYAGAIN",
	"265": "RPL_LOCALUSERS",
	"266": "RPL_GLOBALUSERS",
	"276": "RPL_WHOISCERTFP",
	"300": "RPL_NONE",
	"301": "RPL_AWAY",
	"302": "RPL_USERHOST",
	"303": "RPL_ISON",
	"305": "RPL_UNAWAY",
	"306": "RPL_NOWAWAY",
	"311": "RPL_WHOISUSER",
	"312": "RPL_WHOISSERVER",
	"313": "RPL_WHOISOPERATOR",
	"314": "RPL_WHOWASUSER",
	"315": "RPL_ENDOFWHO",
	"317": "RPL_WHOISIDLE",
	"318": "RPL_ENDOFWHOIS",
	"319": "RPL_WHOISCHANNELS",
	"321": "RPL_LISTSTART",
	"322": "RPL_LIST",
	"323": "RPL_LISTEND",
	"324": "RPL_CHANNELMODEIS",
	"329": "RPL_CREATIONTIME",
	"330": "RPL_WHOISACCOUNT",
	"331": "RPL_NOTOPIC",
	"332": "RPL_TOPIC",
	"333": "RPL_TOPICTIME",
	"338": "RPL_WHOISACTUALLY",
	"341": "RPL_INVITING",
	"346": "RPL_INVITELIST",
	"347": "RPL_ENDOFINVITELIST",
	"348": "RPL_EXCEPTLIST",
	"349": "RPL_ENDOFEXCEPTLIST",
	"351": "RPL_VERSION",
	"352": "RPL_WHOREPLY",
	"353": "RPL_NAMREPLY",
	"354": "RPL_WHOSPCRPL",
	"366": "RPL_ENDOFNAMES",
	"367": "RPL_BANLIST",
	"368": "RPL_ENDOFBANLIST",
	"369": "RPL_ENDOFWHOWAS",
	"371": "RPL_INFO",
	"372": "RPL_MOTD",
	"374": "RPL_ENDOFINFO",
	"375": "RPL_MOTDSTART",
	"376": "RPL_ENDOFMOTD",
	"378": "RPL_WHOISHOST",
	"379": "RPL_WHOISMODES",
	"381": "RPL_YOUREOPER",
	"391": "RPL_TIME",
	"396": "RPL_VISIBLEHOST",
	"401": "ERR_NOSUCHNICK",
	"402": "ERR_NOSUCHSERVER",
	"403": "ERR_NOSUCHCHANNEL",
	"404": "ERR_CANNOTSENDTOCHAN",
	"405": "ERR_TOOMANYCHANNELS",
	"406": "ERR_WASNOSUCHNICK",
	"409": "ERR_NOORIGIN",
	"411": "ERR_NORECIPIENT",
	"412": "ERR_NOTEXTTOSEND",
	"417": "ERR_INPUTTOOLONG",
	"421": "ERR_UNKNOWNCOMMAND",
	"422": "ERR_NOMOTD",
	"431": "ERR_NONICKNAMEGIVEN",
	"432": "ERR_ERRONEUSNICKNAME",
	"433": "ERR_NICKNAMEINUSE",
	"436": "ERR_NICKCOLLISION",
	"441": "ERR_USERNOTINCHANNEL",
	"442": "ERR_NOTONCHANNEL",
	"443": "ERR_USERONCHANNEL",
	"451": "ERR_NOTREGISTERED",
	"461": "ERR_NEEDMOREPARAMS",
	"462": "ERR_ALREADYREGISTERED",
	"464": "ERR_PASSWDMISMATCH",
	"465": "ERR_YOUREBANNEDCREEP",
	"471": "ERR_CHANNELISFULL",
	"472": "ERR_UNKNOWNMODE",
	"473": "ERR_INVITEONLYCHAN",
	"474": "ERR_BANNEDFROMCHAN",
	"475": "ERR_BADCHANNELKEY",
	"476": "ERR_BADCHANMASK",
	"477": "ERR_NEEDREGGEDNICK",
	"481": "ERR_NOPRIVILEGES",
	"482": "ERR_CHANOPRIVSNEEDED",
	"483": "ERR_CANTKILLSERVER",
	"491": "ERR_NOOPERHOST",
	"501": "ERR_UMODEUNKNOWNFLAG",
	"502": "ERR_USERSDONTMATCH",
	"524": "ERR_HELPNOTFOUND",
	"525": "ERR_INVALIDKEY",
	"670": "RPL_STARTTLS",
	"671": "RPL_WHOISSECURE",
	"691": "ERR_STARTTLS",
	"704": "RPL_HELPSTART",
	"705": "RPL_HELPTXT",
	"706": "RPL_ENDOFHELP",
	"723": "ERR_NOPRIVS",
	"730": "RPL_MONONLINE",
	"731": "RPL_MONOFFLINE",
	"732": "RPL_MONLIST",
	"733": "RPL_ENDOFMONLIST",
	"734": "ERR_MONLISTFULL",
	"900": "RPL_LOGGEDIN",
	"901": "RPL_LOGGEDOUT",
	"902": "ERR_NICKLOCKED",
	"903": "RPL_SASLSUCCESS",
	"904": "ERR_SASLFAIL",
	"905": "ERR_SASLTOOLONG",
	"906": "ERR_SASLABORTED",
	"907": "ERR_SASLALREADY",
	"908": "RPL_SASLMECHS",
}

// CanonicalName returns the symbolic name of a numeric, or the command unchanged.
func CanonicalName(command string) string {
	if name, ok := numericNames[command]; ok {
		return name
	}
	return command
}
