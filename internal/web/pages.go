package web

// The display and controller pages are deliberately thin shells: they
// connect to /ws, render the broadcast snapshot, and send commands.
// All game rules live server-side.

const displayPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Yahtzee</title>
<style>
body{background:#000;color:#c8c8c8;font-family:sans-serif;margin:0;display:flex}
#sidebar{width:300px;background:#141414;border-right:4px solid #f00;padding:16px;min-height:100vh}
#board{flex:1;padding:16px}
.die{display:inline-block;width:48px;height:48px;line-height:48px;text-align:center;
background:#fff;color:#000;font-size:24px;margin:4px;border-radius:6px}
.die.kept{background:#646464}
.player{margin:6px 0}
.swatch{display:inline-block;width:14px;height:14px;margin-right:6px}
table{border-collapse:collapse;margin-top:12px}
td,th{border:1px solid #333;padding:4px 10px;text-align:left}
</style>
</head>
<body>
<div id="sidebar">
  <h1>Yahtzee</h1>
  <p>Scan to join:</p>
  <img src="qr.png" alt="join QR" width="200" height="200">
  <div id="players"></div>
  <p id="phase"></p>
</div>
<div id="board">
  <div id="dice"></div>
  <p id="rolls"></p>
  <div id="cards"></div>
</div>
<script>
const sock = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
sock.onmessage = (raw) => {
  const msg = JSON.parse(raw.data);
  if (msg.type !== "state_changed" && msg.type !== "game_state") return;
  render(msg.data);
};
function render(s) {
  document.getElementById("phase").textContent = "Phase: " + s.phase +
    (s.winnerId ? " — winner: " + nameOf(s, s.winnerId) : "");
  document.getElementById("players").innerHTML = s.players.map(p =>
    '<div class="player"><span class="swatch" style="background:' + p.color + '"></span>' +
    p.name + (p.id === s.currentPlayerId ? " ←" : "") +
    (p.ready ? "" : " (waiting)") + (p.connected ? "" : " [offline]") + "</div>").join("");
  document.getElementById("dice").innerHTML = (s.dice || []).map((d, i) =>
    '<span class="die' + (s.kept[i] ? " kept" : "") + '">' + d + "</span>").join("");
  document.getElementById("rolls").textContent = "Roll: " + s.rollCount + "/" + s.maxRolls;
  document.getElementById("cards").innerHTML = s.players.map(p =>
    "<table><tr><th colspan=2 style='color:" + p.color + "'>" + p.name + " — " + p.total + "</th></tr>" +
    Object.entries(p.scoreCard).map(([c, v]) => "<tr><td>" + c + "</td><td>" + v + "</td></tr>").join("") +
    "</table>").join("");
}
function nameOf(s, id) {
  const p = s.players.find(p => p.id === id);
  return p ? p.name : id;
}
</script>
</body>
</html>
`

const controllerPage = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width,initial-scale=1">
<title>Yahtzee Controller</title>
<style>
body{background:#111;color:#eee;font-family:sans-serif;margin:0;padding:16px}
button{font-size:18px;padding:10px 16px;margin:4px;border:none;border-radius:6px;background:#2a6;color:#fff}
button:disabled{background:#444}
.die{display:inline-block;width:44px;height:44px;line-height:44px;text-align:center;
background:#fff;color:#000;font-size:22px;margin:4px;border-radius:6px}
.die.kept{background:#888}
#error{color:#f66}
input{font-size:18px;padding:8px}
</style>
</head>
<body>
<div id="join">
  <input id="name" placeholder="Your name">
  <button onclick="join()">Join</button>
</div>
<div id="game" style="display:none">
  <p id="status"></p>
  <div id="dice"></div>
  <button id="rollBtn" onclick="roll()">Roll</button>
  <button id="readyBtn" onclick="send({action:'ready'})">Ready</button>
  <div id="categories"></div>
  <button id="newGameBtn" style="display:none" onclick="send({action:'new_game'})">New game</button>
</div>
<p id="error"></p>
<script>
let state = null, me = null, kept = [false, false, false, false, false];
const sock = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");
sock.onmessage = (raw) => {
  const msg = JSON.parse(raw.data);
  if (msg.type === "error") {
    document.getElementById("error").textContent = msg.data.message;
    return;
  }
  if (msg.type === "joined") me = msg.playerId;
  if (msg.type === "joined" || msg.type === "game_state" || msg.type === "state_changed") {
    document.getElementById("error").textContent = "";
    apply(msg.data);
  }
};
function apply(s) {
  state = s;
  if (s.yourPlayerId) me = s.yourPlayerId;
  if (s.savedName && !document.getElementById("name").value) {
    document.getElementById("name").value = s.savedName;
  }
  if (!s.joinable && !me) {
    document.getElementById("join").style.display = "none";
    document.getElementById("status").textContent = "Game already in progress";
    document.getElementById("game").style.display = "block";
    return;
  }
  if (!me) return;
  document.getElementById("join").style.display = "none";
  document.getElementById("game").style.display = "block";
  if (s.rollCount === 0) kept = [false, false, false, false, false];
  const myTurn = s.currentPlayerId === me;
  document.getElementById("status").textContent =
    s.phase === "lobby" ? "Waiting for players..." :
    s.phase === "finished" ? "Game over" :
    myTurn ? "Your turn — roll " + s.rollCount + "/" + s.maxRolls : "Waiting for your turn";
  document.getElementById("readyBtn").style.display = s.phase === "lobby" ? "" : "none";
  document.getElementById("rollBtn").disabled = !myTurn || s.rollCount >= s.maxRolls;
  document.getElementById("newGameBtn").style.display = s.phase === "finished" ? "" : "none";
  document.getElementById("dice").innerHTML = (s.dice || []).map((d, i) =>
    '<span class="die' + (kept[i] ? " kept" : "") + '" onclick="toggle(' + i + ')">' + d + "</span>").join("");
  const mine = s.players.find(p => p.id === me);
  const scorable = myTurn && s.rollCount > 0 && mine;
  document.getElementById("categories").innerHTML = !mine ? "" :
    ["ones","twos","threes","fours","fives","sixes","three_of_a_kind","four_of_a_kind",
     "full_house","small_straight","large_straight","yahtzee","chance"].map(c =>
      "<button " + ((!scorable || c in mine.scoreCard) ? "disabled" : "") +
      " onclick=\"send({action:'score',category:'" + c + "'})\">" + c.replaceAll("_", " ") +
      (c in mine.scoreCard ? " = " + mine.scoreCard[c] : "") + "</button>").join("");
}
function toggle(i) {
  if (state && state.rollCount > 0) { kept[i] = !kept[i]; apply(state); }
}
function join() {
  send({action: "join", name: document.getElementById("name").value});
}
function roll() {
  const keep = [];
  kept.forEach((k, i) => { if (k) keep.push(i); });
  send({action: "roll", keepIndices: keep});
}
function send(cmd) { sock.send(JSON.stringify(cmd)); }
</script>
</body>
</html>
`
