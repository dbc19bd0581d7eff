package api

import "net/http"

func (s *Server) handleViewPage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(viewPageHTML))
}

const viewPageHTML = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>QR Image Service</title>
<style>
  * { margin: 0; padding: 0; box-sizing: border-box; }
  body {
    font-family: -apple-system, BlinkMacSystemFont, "Segoe UI", Roboto, sans-serif;
    background: #0a0a0a;
    color: #e0e0e0;
    display: flex;
    justify-content: center;
    align-items: center;
    min-height: 100vh;
  }
  .card {
    background: #1a1a1a;
    border: 1px solid #333;
    border-radius: 16px;
    padding: 48px;
    text-align: center;
    max-width: 460px;
    width: 100%;
  }
  h1 { font-size: 20px; font-weight: 600; margin-bottom: 8px; }
  .subtitle { color: #888; font-size: 14px; margin-bottom: 24px; }
  form { display: flex; flex-direction: column; gap: 12px; margin-bottom: 24px; }
  input {
    background: #0a0a0a;
    border: 1px solid #333;
    border-radius: 8px;
    color: #e0e0e0;
    padding: 10px 12px;
    font-size: 14px;
  }
  button {
    background: #2563eb;
    border: none;
    border-radius: 8px;
    color: #fff;
    padding: 10px;
    font-size: 14px;
    font-weight: 600;
    cursor: pointer;
  }
  #qr-container {
    width: 280px; height: 280px;
    margin: 0 auto 16px;
    display: flex;
    align-items: center;
    justify-content: center;
    background: #fff;
    border-radius: 12px;
  }
  #qr-container img { width: 260px; height: 260px; }
  #status { font-size: 13px; color: #888; }
  .error { color: #f87171 !important; }
</style>
</head>
<body>
<div class="card">
  <h1>QR Image Service</h1>
  <p class="subtitle">Enter text or a URL to render it as a QR code</p>
  <form id="gen-form">
    <input type="text" id="content" placeholder="https://example.com" required>
    <input type="number" id="size" placeholder="Size in pixels (default 250)" min="1">
    <button type="submit">Generate</button>
  </form>
  <div id="qr-container">
    <span id="status">No code yet</span>
  </div>
  <div id="status-line"></div>
</div>
<script>
(function() {
  var form = document.getElementById('gen-form');
  var container = document.getElementById('qr-container');
  var statusLine = document.getElementById('status-line');

  function clearChildren(el) {
    while (el.firstChild) el.removeChild(el.firstChild);
  }

  form.addEventListener('submit', function(ev) {
    ev.preventDefault();
    var content = document.getElementById('content').value;
    var size = document.getElementById('size').value;

    var params = new URLSearchParams({ content: content, format: 'datauri' });
    if (size) params.set('size', size);

    fetch('/qr?' + params.toString())
      .then(function(r) { return r.json(); })
      .then(function(data) {
        if (data.error) {
          statusLine.textContent = data.error;
          statusLine.className = 'error';
          return;
        }
        clearChildren(container);
        var img = document.createElement('img');
        img.setAttribute('alt', 'QR Code');
        img.setAttribute('src', data.data_uri);
        container.appendChild(img);
        statusLine.textContent = data.size + 'x' + data.size + ' px, ' + data.bytes + ' bytes';
        statusLine.className = '';
      })
      .catch(function() {
        statusLine.textContent = 'Request failed';
        statusLine.className = 'error';
      });
  });
})();
</script>
</body>
</html>`
