package goKeep

// Stored key layout. Fixed for interoperability with data written by
// earlier clients; do not change.
const (
	tokenKeyPrefix  = "userToken_"
	dataKeyPrefix   = "userData_"
	avatarKeyPrefix = "userAvatar_"
	activeUserKey   = "activeUser"
	rosterKey       = "lastUsers"
)

// avatarFallback doubles as the write-failure sentinel and the "no avatar"
// marker; GetAccount never surfaces it as a real avatar.
const avatarFallback = "default"

func tokenKey(username string) string {
	return tokenKeyPrefix + username
}

func dataKey(username string) string {
	return dataKeyPrefix + username
}

func avatarKey(username string) string {
	return avatarKeyPrefix + username
}
