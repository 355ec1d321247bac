package domain

import "strings"

var agentNameToID = map[string]string{
	"Gekko":     "e370fa57-4757-3604-3648-499e1f642d3f",
	"Fade":      "dade69b4-4f5a-8528-247b-219e5a1facd6",
	"Breach":    "5f8d3a7f-467b-97f3-062c-13acf203c006",
	"Deadlock":  "cc8b64c8-4b25-4ff9-6e7f-37b4da43d235",
	"Tejo":      "b444168c-4e35-8076-db47-ef9bf368f384",
	"Raze":      "f94c3b30-42be-e959-889c-5aa313dba261",
	"Chamber":   "22697a3d-45bf-8dd7-4fec-84a9e28c69d7",
	"KAY/O":     "601dbbe7-43ce-be57-2a40-4abd24953621",
	"Skye":      "6f2a04ca-43e0-be17-7f36-b3908627744d",
	"Cypher":    "117ed9e3-49f3-6512-3ccf-0cada7e3823b",
	"Sova":      "320b2a48-4d9b-a075-30f1-1f93a9b638fa",
	"Killjoy":   "1e58de9c-4950-5125-93e9-a0aee9f98746",
	"Harbor":    "95b78ed7-4637-86d9-7e41-71ba8c293152",
	"Vyse":      "efba5359-4016-a1e5-7626-b1ae76895940",
	"Viper":     "707eab51-4836-f488-046a-cda6bf494859",
	"Phoenix":   "eb93336a-449b-9c1b-0a54-a891f7921d69",
	"Veto":      "92eeef5d-43b5-1d4a-8d03-b3927a09034b",
	"Astra":     "41fb69c1-4189-7b37-f117-bcaf1e96f1bf",
	"Brimstone": "9f0d8ba9-4140-b941-57d3-a7ad57c6b417",
	"Iso":       "0e38b510-41a8-5780-5e8f-568b2a4f2d6c",
	"Clove":     "1dbf2edd-4729-0984-3115-daa5eed44993",
	"Neon":      "bb2a4828-46eb-8cd1-e765-15848195d751",
	"Yoru":      "7f94d92c-4234-0a36-9646-3a87eb8b5c89",
	"Waylay":    "df1cb487-4902-002e-5c17-d28e83e78588",
	"Sage":      "569fdd95-4d10-43ab-ca70-79becc718b46",
	"Reyna":     "a3bfb853-43b2-7238-a4f1-ad90e9e46bcc",
	"Omen":      "8e253930-4c05-31dd-1b6c-968525494517",
	"Jett":      "add6443a-41bd-e414-f6ad-e58d267f4e95",
}

// the kill feed model reports "Kayo" for KAY/O
var agentAliases = map[string]string{
	"kayo": "KAY/O",
}

var weaponTypes = map[string]WeaponType{
	"Ares":     WeaponHeavy,
	"Bucky":    WeaponShotgun,
	"Bulldog":  WeaponRifle,
	"Classic":  WeaponSidearm,
	"Frenzy":   WeaponSidearm,
	"Ghost":    WeaponSidearm,
	"Guardian": WeaponRifle,
	"Judge":    WeaponShotgun,
	"Marshal":  WeaponSniper,
	"Melee":    WeaponMelee,
	"Odin":     WeaponHeavy,
	"Operator": WeaponSniper,
	"Outlaw":   WeaponSniper,
	"Phantom":  WeaponRifle,
	"Sheriff":  WeaponSidearm,
	"Shorty":   WeaponSidearm,
	"Spectre":  WeaponSMG,
	"Stinger":  WeaponSMG,
	"Vandal":   WeaponRifle,
}

// LookupAgent returns the canonical agent name for a case-insensitive match.
func LookupAgent(name string) (string, bool) {
	if alias, ok := agentAliases[strings.ToLower(name)]; ok {
		return alias, true
	}
	for agent := range agentNameToID {
		if strings.EqualFold(agent, name) {
			return agent, true
		}
	}
	return "", false
}

func AgentID(name string) string {
	if canonical, ok := LookupAgent(name); ok {
		return agentNameToID[canonical]
	}
	return ""
}

// LookupWeapon returns the canonical weapon name and type. Unknown weapons keep
// their name and are typed WeaponUnknown since the type set is open.
func LookupWeapon(name string) (string, WeaponType) {
	for weapon, kind := range weaponTypes {
		if strings.EqualFold(weapon, name) {
			return weapon, kind
		}
	}
	return name, WeaponUnknown
}
