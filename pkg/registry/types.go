package registry

import "strconv"

// Wire type ids for every catalog entry. Serialized graphs reference
// these strings; renaming one is a breaking format change.

// Event kinds.
const (
	TypeOnGameStart      = "OnGameStart"
	TypeOnEnter          = "OnEnter"
	TypeOnExit           = "OnExit"
	TypeOnLook           = "OnLook"
	TypeOnTake           = "OnTake"
	TypeOnDrop           = "OnDrop"
	TypeOnUse            = "OnUse"
	TypeOnUseWith        = "OnUseWith"
	TypeOnOpen           = "OnOpen"
	TypeOnClose          = "OnClose"
	TypeOnUnlock         = "OnUnlock"
	TypeOnTalk           = "OnTalk"
	TypeOnNpcKilled      = "OnNpcKilled"
	TypeOnQuestStarted   = "OnQuestStarted"
	TypeOnQuestCompleted = "OnQuestCompleted"
	TypeOnFlagChanged    = "OnFlagChanged"
	TypeOnCounterChanged = "OnCounterChanged"
	TypeOnStatThreshold  = "OnStatThreshold"
	TypeOnTurnElapsed    = "OnTurnElapsed"
	TypeOnSleep          = "OnSleep"
	TypeOnPlayerDeath    = "OnPlayerDeath"
)

// Condition kinds.
const (
	TypeHasFlag        = "HasFlag"
	TypeCounterCompare = "CounterCompare"
	TypeHasItem        = "HasItem"
	TypeHasEquipped    = "HasEquipped"
	TypeStatCompare    = "StatCompare"
	TypeHasMoney       = "HasMoney"
	TypeQuestStatus    = "QuestStatus"
	TypeNpcVisible     = "NpcVisible"
	TypeNpcAlive       = "NpcAlive"
	TypeDoorOpen       = "DoorOpen"
	TypeDoorLocked     = "DoorLocked"
	TypePlayerInRoom   = "PlayerInRoom"
	TypeRandomChance   = "RandomChance"
	TypeExpression     = "Expression"
	TypeHasAbility     = "HasAbility"
)

// Action kinds.
const (
	TypeShowMessage        = "ShowMessage"
	TypeSetFlag            = "SetFlag"
	TypeToggleFlag         = "ToggleFlag"
	TypeSetCounter         = "SetCounter"
	TypeIncrementCounter   = "IncrementCounter"
	TypeDecrementCounter   = "DecrementCounter"
	TypeGiveItem           = "GiveItem"
	TypeTakeItem           = "TakeItem"
	TypeEquipItem          = "EquipItem"
	TypeUnequipItem        = "UnequipItem"
	TypeModifyStat         = "ModifyStat"
	TypeSetStat            = "SetStat"
	TypeGiveMoney          = "GiveMoney"
	TypeTakeMoney          = "TakeMoney"
	TypeApplyModifier      = "ApplyModifier"
	TypeRemoveModifier     = "RemoveModifier"
	TypeTeleportPlayer     = "TeleportPlayer"
	TypeSetRoomVisible     = "SetRoomVisible"
	TypeSetRoomIlluminated = "SetRoomIlluminated"
	TypeSetNpcVisible      = "SetNpcVisible"
	TypeSetNpcPatrol       = "SetNpcPatrol"
	TypeSetNpcFollow       = "SetNpcFollow"
	TypeSetNpcMoney        = "SetNpcMoney"
	TypeGiveNpcItem        = "GiveNpcItem"
	TypeSetNpcMagic        = "SetNpcMagic"
	TypeMoveObject         = "MoveObject"
	TypeRemoveObject       = "RemoveObject"
	TypeOpenDoor           = "OpenDoor"
	TypeCloseDoor          = "CloseDoor"
	TypeLockDoor           = "LockDoor"
	TypeUnlockDoor         = "UnlockDoor"
	TypeStartQuest         = "StartQuest"
	TypeCompleteQuest      = "CompleteQuest"
	TypeFailQuest          = "FailQuest"
	TypeStartCombat        = "StartCombat"
	TypeOpenShop           = "OpenShop"
	TypeCraftItem          = "CraftItem"
	TypeLearnAbility       = "LearnAbility"
	TypeForgetAbility      = "ForgetAbility"
	TypeModifyNeed         = "ModifyNeed"
)

// Flow kinds.
const (
	TypeSequence     = "Sequence"
	TypeBranch       = "Branch"
	TypeRandomBranch = "RandomBranch"
	TypeDelay        = "Delay"
	TypeOnce         = "Once"
	TypeGate         = "Gate"
)

// Variable kinds.
const (
	TypeBoolValue      = "BoolValue"
	TypeIntValue       = "IntValue"
	TypeStringValue    = "StringValue"
	TypeGetFlag        = "GetFlag"
	TypeGetCounter     = "GetCounter"
	TypeGetStat        = "GetStat"
	TypeGetPlayerMoney = "GetPlayerMoney"
	TypeGetPlayerRoom  = "GetPlayerRoom"
	TypeGetQuestStatus = "GetQuestStatus"
	TypeRandomInt      = "RandomInt"
	TypeMathOp         = "MathOp"
	TypeCompare        = "Compare"
	TypeLogic          = "Logic"
	TypeSelectValue    = "SelectValue"
	TypeEvaluate       = "Evaluate"
	TypeFormatText     = "FormatText"
)

// Dialogue kinds.
const (
	TypeSay             = "Say"
	TypeNpcSay          = "NpcSay"
	TypePlayerChoice    = "PlayerChoice"
	TypeEndConversation = "EndConversation"
)

// Port names shared across many kinds.
const (
	PortExec   = "Exec"
	PortTrue   = "True"
	PortFalse  = "False"
	PortResult = "Result"
	PortValue  = "Value"
	PortFirst  = "First"
	PortRest   = "Rest"
	PortOpen   = "Open"
	PortClose  = "Close"
)

// SequenceFanOut and related fan-out widths fix how many numbered ports
// the flow and dialogue kinds expose (Then0..ThenN-1, Option0.., ...).
const (
	SequenceFanOut     = 5
	RandomBranchFanOut = 5
	ChoiceFanOut       = 4
	FormatValueCount   = 4
)

// ThenPort names the numbered execution output at the given index.
func ThenPort(i int) string {
	return "Then" + strconv.Itoa(i)
}

// OptionProp names the numbered choice property at the given index.
func OptionProp(i int) string {
	return "Option" + strconv.Itoa(i)
}

// WeightProp names the numbered weight property at the given index.
func WeightProp(i int) string {
	return "Weight" + strconv.Itoa(i)
}

// ValuePort names the numbered format-value port at the given index.
func ValuePort(i int) string {
	return "Value" + strconv.Itoa(i)
}
