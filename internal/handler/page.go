package handler

// indexHTML is the terminal-style console page. It is intentionally a
// single self-contained document so the binary needs no asset directory.
const indexHTML = `<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<title>teleterm</title>
<style>
  body { background: #0c0c0c; color: #d4d4d4; font-family: monospace; margin: 0; }
  #screen { padding: 12px; height: calc(100vh - 80px); overflow-y: auto; white-space: pre-wrap; }
  #screen .meta { color: #6a9955; }
  #screen .err { color: #f48771; }
  #bar { display: flex; gap: 8px; padding: 12px; border-top: 1px solid #333; }
  #bar input { background: #1e1e1e; color: #d4d4d4; border: 1px solid #333; font-family: monospace; padding: 6px; }
  #dest { width: 220px; }
  #text { flex: 1; }
  button { background: #1e1e1e; color: #d4d4d4; border: 1px solid #333; font-family: monospace; padding: 6px 12px; cursor: pointer; }
</style>
</head>
<body>
<div id="screen"></div>
<div id="bar">
  <input id="dest" placeholder="chat id or @username">
  <input id="text" placeholder="message">
  <button onclick="sendMessage()">send</button>
  <button onclick="authenticate()">login</button>
</div>
<script>
const screen = document.getElementById("screen");
const ws = new WebSocket((location.protocol === "https:" ? "wss://" : "ws://") + location.host + "/ws");

function line(text, cls) {
  const div = document.createElement("div");
  if (cls) div.className = cls;
  div.textContent = text;
  screen.appendChild(div);
  screen.scrollTop = screen.scrollHeight;
}

ws.onmessage = (ev) => {
  const event = JSON.parse(ev.data);
  const d = event.data;
  if (event.type === "message") {
    line("[" + d.timestamp + "] [" + d.sender + " | " + d.chat + "]", "meta");
    line("> " + d.text);
  } else if (event.type === "auth_status") {
    line("* auth: " + d.status + (d.message ? " - " + d.message : ""), "meta");
  } else if (event.type === "send_result") {
    line(d.success ? "* " + d.message : "* send failed: " + d.error, d.success ? "meta" : "err");
  } else if (event.type === "error") {
    line("* error: " + d.message, "err");
  }
};

function authenticate() {
  const apiId = parseInt(prompt("API ID"), 10);
  const apiHash = prompt("API hash");
  const phone = prompt("Phone number (optional)") || "";
  ws.send(JSON.stringify({type: "authenticate", data: {api_id: apiId, api_hash: apiHash, phone: phone}}));
}

function sendMessage() {
  const dest = document.getElementById("dest").value.trim();
  const text = document.getElementById("text").value;
  if (!dest || !text) return;
  ws.send(JSON.stringify({type: "send_message", data: {chat_id: dest, text: text}}));
  document.getElementById("text").value = "";
}

document.getElementById("text").addEventListener("keydown", (ev) => {
  if (ev.key === "Enter") sendMessage();
});
</script>
</body>
</html>
`
